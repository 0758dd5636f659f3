package lockfs

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/hnrobert/htstore/internal/logger"
)

// ErrLockTimeout is returned by Acquire when a bounded wait expires before
// the advisory lock is granted.
var ErrLockTimeout = errors.New("timed out waiting for file lock")

var globalMu sync.Mutex
var fileMu = map[string]*sync.Mutex{}

func muFor(path string) *sync.Mutex {
	globalMu.Lock()
	defer globalMu.Unlock()
	if m := fileMu[path]; m != nil {
		return m
	}
	m := &sync.Mutex{}
	fileMu[path] = m
	return m
}

// Guard holds both the in-process mutex and the cross-process advisory lock
// for one file. It stays held across the caller's whole
// read-parse-validate-write sequence; Release is idempotent so it is safe
// to defer it and still release early on the success path.
type Guard struct {
	path     string
	mu       *sync.Mutex
	lock     *os.File
	released bool
}

// Acquire locks path for a read-modify-write cycle. A timeout of zero
// blocks until the lock is granted.
func Acquire(path string, timeout time.Duration) (*Guard, error) {
	m := muFor(path)
	m.Lock()
	lf, err := os.OpenFile(path+".lock", os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		m.Unlock()
		return nil, err
	}
	if err := flockWait(lf, timeout); err != nil {
		_ = lf.Close()
		m.Unlock()
		return nil, err
	}
	return &Guard{path: path, mu: m, lock: lf}, nil
}

func flockWait(f *os.File, timeout time.Duration) error {
	fd := int(f.Fd())
	if timeout <= 0 {
		for {
			err := unix.Flock(fd, unix.LOCK_EX)
			if err != unix.EINTR {
				return err
			}
		}
	}
	deadline := time.Now().Add(timeout)
	for {
		err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		switch err {
		case nil:
			return nil
		case unix.EWOULDBLOCK, unix.EINTR:
		default:
			return err
		}
		if time.Now().After(deadline) {
			return ErrLockTimeout
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// ReadFile reads the locked file. A missing file surfaces as fs.ErrNotExist
// so callers can start from an empty store.
func (g *Guard) ReadFile() ([]byte, error) {
	return os.ReadFile(g.path)
}

// WriteFile replaces the locked file's contents in full.
func (g *Guard) WriteFile(data []byte) error {
	return writeAtomic(g.path, data, 0o644)
}

// Release drops the advisory lock and the in-process mutex. Unlock errors
// are logged and swallowed: cleanup is best effort and the caller cannot
// act on them.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	if err := unix.Flock(int(g.lock.Fd()), unix.LOCK_UN); err != nil {
		logger.Warn("unlock %s: %v", g.path, err)
	}
	_ = g.lock.Close()
	g.mu.Unlock()
}

// ReadFile reads path without the advisory lock, for reload paths that only
// observe the file.
func ReadFile(path string) ([]byte, error) {
	m := muFor(path)
	m.Lock()
	defer m.Unlock()
	return os.ReadFile(path)
}

// Stat returns path's modification time.
func Stat(path string) (time.Time, error) {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return st.ModTime(), nil
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".htstore-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		// A bind-mounted credential file cannot be replaced via rename
		// (EBUSY/EXDEV). Fall back to an in-place rewrite.
		if errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EXDEV) || errors.Is(err, syscall.EPERM) {
			logger.Warn("atomic rename failed for %s (%v); falling back to in-place rewrite", path, err)
			f, err2 := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, perm)
			if err2 != nil {
				return err
			}
			if _, err2 := f.Write(data); err2 != nil {
				_ = f.Close()
				return err2
			}
			_ = f.Sync()
			return f.Close()
		}
		return err
	}
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
