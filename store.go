package htstore

import (
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/hnrobert/htstore/internal/htcrypt"
	"github.com/hnrobert/htstore/internal/htfile"
	"github.com/hnrobert/htstore/internal/lockfs"
)

var errNoUserFile = errors.New("user file path is required")

// Store mirrors one htpasswd/htgroup file pair in memory.
//
// The mutex guards the mirrors for in-process callers; cross-process
// coordination is the job of the advisory file lock taken by mutations.
// The mirrors live for the process lifetime and are never authoritative.
type Store struct {
	cfg  Config
	warn WarnFunc

	userPath  string
	groupPath string

	mu          sync.Mutex
	users       map[string]string
	groups      *htfile.Groups
	usersMtime  time.Time
	groupsMtime time.Time
}

// New builds a Store over cfg's files. Nothing is opened until the first
// operation: a missing file just means no users exist yet.
func New(cfg Config) (*Store, error) {
	if cfg.File == "" {
		return nil, errNoUserFile
	}
	return &Store{
		cfg:       cfg,
		warn:      cfg.warnFunc(),
		userPath:  cfg.resolve(cfg.File),
		groupPath: cfg.resolve(cfg.GroupFile),
		users:     make(map[string]string),
		groups:    htfile.NewGroups(),
	}, nil
}

// Authenticate verifies a password and, on success, returns the user's
// groups: the implicit self group first, then every group file entry
// containing the user, in written order. An unknown username and a wrong
// password both come back as (nil, false, nil) so callers cannot tell the
// cases apart.
func (s *Store) Authenticate(username, password string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reloadUsersLocked(); err != nil {
		return nil, false, err
	}
	hash, ok := s.users[username]
	if !ok {
		return nil, false, nil
	}
	if !htcrypt.Verify(password, hash) {
		return nil, false, nil
	}
	if err := s.reloadGroupsLocked(); err != nil {
		return nil, false, err
	}
	groups := []string{username}
	for _, name := range s.groups.GroupsOf(username) {
		if name != username {
			groups = append(groups, name)
		}
	}
	return groups, true, nil
}

// AddUser registers a new user. The duplicate/capacity check runs twice:
// once against the in-memory mirror to fail fast without locking, and
// again after the authoritative file is re-read under the lock, closing
// the window where two processes register the same name concurrently.
func (s *Store) AddUser(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingInput
	}
	if !uriSafe(username) {
		return ErrNotURISafe
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sanityCheckLocked(username, password); err != nil {
		return err
	}

	g, err := lockfs.Acquire(s.userPath, s.cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer g.Release()

	body, err := g.ReadFile()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.users = htfile.ParseUsers(string(body))
	if err := s.sanityCheckLocked(username, password); err != nil {
		return err
	}

	hash := htcrypt.Generate(password)
	if err := g.WriteFile([]byte(htfile.AppendUser(string(body), username, hash))); err != nil {
		return err
	}
	g.Release()
	return s.refreshUsersLocked()
}

// sanityCheckLocked rejects duplicate registrations and enforces the user
// limit against whatever state s.users currently holds.
func (s *Store) sanityCheckLocked(username, password string) error {
	if hash, ok := s.users[username]; ok {
		if htcrypt.Verify(password, hash) {
			return ErrUserExists
		}
		return ErrUnauthorized
	}
	if s.cfg.MaxUsers != nil && len(s.users) >= *s.cfg.MaxUsers {
		return ErrMaxUsers
	}
	return nil
}

// uriSafe reports whether the name equals its own percent-encoding. The
// encoder matches JavaScript's encodeURIComponent: only alphanumerics and
// -_.!~*'() survive unescaped. Notably the record separators ':', ' ' and
// '\n' are all escaped, so a name that passes here can never corrupt a
// credential file line.
func uriSafe(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '-', c == '_', c == '.', c == '!', c == '~', c == '*', c == '\'', c == '(', c == ')':
		default:
			return false
		}
	}
	return true
}
