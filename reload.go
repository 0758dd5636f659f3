package htstore

import (
	"errors"
	"io/fs"

	"github.com/hnrobert/htstore/internal/htfile"
	"github.com/hnrobert/htstore/internal/lockfs"
)

// Reload refreshes the in-memory user map if the backing file changed on
// disk since the last look. Parsed content is merged over the existing
// map; a missing file is the empty bootstrap state, not an error.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadUsersLocked()
}

// ReloadGroups is Reload for the group file.
func (s *Store) ReloadGroups() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadGroupsLocked()
}

func (s *Store) reloadUsersLocked() error {
	mtime, err := lockfs.Stat(s.userPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if mtime.Equal(s.usersMtime) {
		return nil
	}
	b, err := lockfs.ReadFile(s.userPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for name, hash := range htfile.ParseUsers(string(b)) {
		s.users[name] = hash
	}
	s.usersMtime = mtime
	return nil
}

func (s *Store) reloadGroupsLocked() error {
	if s.groupPath == "" {
		return nil
	}
	mtime, err := lockfs.Stat(s.groupPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if mtime.Equal(s.groupsMtime) {
		return nil
	}
	b, err := lockfs.ReadFile(s.groupPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	s.groups.Merge(htfile.ParseGroups(string(b)))
	s.groupsMtime = mtime
	return nil
}

// refreshUsersLocked re-reads the user file unconditionally and replaces
// the mirror, so the next Authenticate sees a just-written record even
// when the filesystem's mtime granularity hides the change.
func (s *Store) refreshUsersLocked() error {
	mtime, err := lockfs.Stat(s.userPath)
	if err != nil {
		return err
	}
	b, err := lockfs.ReadFile(s.userPath)
	if err != nil {
		return err
	}
	s.users = htfile.ParseUsers(string(b))
	s.usersMtime = mtime
	return nil
}

func (s *Store) refreshGroupsLocked() error {
	mtime, err := lockfs.Stat(s.groupPath)
	if err != nil {
		return err
	}
	b, err := lockfs.ReadFile(s.groupPath)
	if err != nil {
		return err
	}
	s.groups = htfile.ParseGroups(string(b))
	s.groupsMtime = mtime
	return nil
}
