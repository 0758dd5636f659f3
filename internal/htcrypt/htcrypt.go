package htcrypt

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/apr1_crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/sergeymakinen/go-crypt/des"
	"golang.org/x/crypto/bcrypt"
)

const (
	prefixPlain = "{PLAIN}"
	prefixSHA   = "{SHA}"
)

// scheme pairs a syntactic recognizer with its verifier. Schemes are tried
// in order; the first recognizer that claims the hash decides the outcome.
type scheme struct {
	match  func(hash string) bool
	verify func(hash, password string) bool
}

var schemes = []scheme{
	{match: isBcrypt, verify: verifyBcrypt},
	{match: hasPrefix(prefixPlain), verify: verifyPlain},
	{match: hasPrefix(prefixSHA), verify: verifySHA},
	// Legacy catch-all: md5-crypt ($1$ and Apache $apr1$), then
	// traditional DES crypt(3) with the two-character embedded salt.
	{match: func(string) bool { return true }, verify: verifyCrypt},
}

func hasPrefix(p string) func(string) bool {
	return func(hash string) bool { return strings.HasPrefix(hash, p) }
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}

// Verify reports whether password matches the stored hash. It never fails:
// an unknown or malformed hash simply does not match.
func Verify(password, hash string) bool {
	for _, s := range schemes {
		if s.match(hash) {
			return s.verify(hash, password)
		}
	}
	return false
}

func verifyBcrypt(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func verifyPlain(hash, password string) bool {
	rest := strings.TrimPrefix(hash, prefixPlain)
	return subtle.ConstantTimeCompare([]byte(rest), []byte(password)) == 1
}

func verifySHA(hash, password string) bool {
	sum := sha1.Sum([]byte(password))
	want := base64.StdEncoding.EncodeToString(sum[:])
	rest := strings.TrimPrefix(hash, prefixSHA)
	return subtle.ConstantTimeCompare([]byte(rest), []byte(want)) == 1
}

func verifyCrypt(hash, password string) bool {
	crypters := []crypt.Crypter{md5_crypt.New(), apr1_crypt.New()}
	for _, c := range crypters {
		if c.Verify(hash, []byte(password)) == nil {
			return true
		}
	}
	return des.Check(hash, password) == nil
}

// Generate hashes a new password with the strongest scheme legacy tools can
// still read back: crypt(3)-compatible md5-crypt with a random salt, with a
// portable {SHA} fallback should crypt generation fail.
func Generate(password string) string {
	if h, err := md5_crypt.New().Generate([]byte(password), nil); err == nil {
		return h
	}
	sum := sha1.Sum([]byte(password))
	return prefixSHA + base64.StdEncoding.EncodeToString(sum[:])
}
