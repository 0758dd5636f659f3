package htcrypt

import (
	"crypto/sha1"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/GehirnInc/crypt/apr1_crypt"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, Verify("secret", string(hash)))
	require.False(t, Verify("wrong", string(hash)))

	// PHP-style $2y$ marker over the same digest.
	phpStyle := "$2y$" + strings.TrimPrefix(string(hash), "$2a$")
	require.True(t, Verify("secret", phpStyle))
}

func TestVerifyPlain(t *testing.T) {
	require.True(t, Verify("hunter2", "{PLAIN}hunter2"))
	require.False(t, Verify("hunter3", "{PLAIN}hunter2"))
	require.False(t, Verify("hunter2extra", "{PLAIN}hunter2"))
}

func TestVerifySHA(t *testing.T) {
	sum := sha1.Sum([]byte("secret"))
	hash := "{SHA}" + base64.StdEncoding.EncodeToString(sum[:])
	require.True(t, Verify("secret", hash))
	require.False(t, Verify("wrong", hash))
}

func TestVerifyMD5Crypt(t *testing.T) {
	hash := Generate("secret")
	require.True(t, strings.HasPrefix(hash, "$1$"))
	require.True(t, Verify("secret", hash))
	require.False(t, Verify("wrong", hash))
}

func TestVerifyApacheMD5(t *testing.T) {
	hash, err := apr1_crypt.New().Generate([]byte("secret"), nil)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$apr1$"))
	require.True(t, Verify("secret", hash))
	require.False(t, Verify("wrong", hash))
}

func TestVerifyDESCrypt(t *testing.T) {
	// Classic crypt(3) vector: password "foob", salt "ar".
	require.True(t, Verify("foob", "arlEKn0OzVJn."))
	require.False(t, Verify("wrong", "arlEKn0OzVJn."))
}

func TestVerifyUnknownHash(t *testing.T) {
	require.False(t, Verify("anything", ""))
	require.False(t, Verify("anything", "$y$j9T$not-supported"))
	require.False(t, Verify("anything", "garbage"))
}
