package htstore

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/hnrobert/htstore/internal/htfile"
	"github.com/hnrobert/htstore/internal/lockfs"
)

var errNoGroupFile = errors.New("group file path is not configured")

// AddUserToGroups ensures username is a member of each named group,
// creating group entries as needed. Groups may be a space-separated string
// or a slice of strings; non-string slice entries are dropped with a
// warning. An empty input is a no-op, as is a call where every membership
// already exists: neither touches the file.
func (s *Store) AddUserToGroups(username string, groups interface{}) error {
	names := normalizeGroups(groups, s.warn)
	if len(names) == 0 {
		return nil
	}
	if username == "" {
		return ErrMissingInput
	}
	if !uriSafe(username) {
		return ErrNotURISafe
	}
	// Group names end up as the first field of an htgroup line, so they
	// are held to the same encoding rule as usernames.
	for _, name := range names {
		if !uriSafe(name) {
			return ErrNotURISafe
		}
	}
	if s.groupPath == "" {
		return errNoGroupFile
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := lockfs.Acquire(s.groupPath, s.cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer g.Release()

	body, err := g.ReadFile()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	parsed := htfile.ParseGroups(string(body))
	changed := false
	for _, name := range names {
		if parsed.Add(name, username) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := g.WriteFile(parsed.Bytes()); err != nil {
		return err
	}
	g.Release()
	return s.refreshGroupsLocked()
}

// normalizeGroups flattens the host-supplied group value. Hosts hand
// through raw config values, so both "a b c" and []string{"a","b","c"}
// are accepted.
func normalizeGroups(v interface{}, warn WarnFunc) []string {
	switch g := v.(type) {
	case nil:
		return nil
	case string:
		return strings.Fields(g)
	case []string:
		var out []string
		for _, e := range g {
			if e != "" {
				out = append(out, e)
			}
		}
		return out
	case []interface{}:
		var out []string
		for _, e := range g {
			str, ok := e.(string)
			if !ok {
				warn("ignoring non-string group entry %v", e)
				continue
			}
			if str != "" {
				out = append(out, str)
			}
		}
		return out
	default:
		warn("ignoring groups value of unsupported type %T", v)
		return nil
	}
}
