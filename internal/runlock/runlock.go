// Package runlock enforces single-instance execution for commands that
// mutate the audio tree or the result store, using an advisory file lock in
// the result root.
package runlock

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"vorleser/internal/config"
)

// FileName is the lock file created in the result root.
const FileName = "vorleser.lock"

// Lock guards one pipeline invocation.
type Lock struct {
	path string
	lock *flock.Flock
}

// New creates a lock rooted in the configured result directory, which must
// exist before Acquire is called.
func New(cfg *config.Config) *Lock {
	path := filepath.Join(cfg.Paths.CheckDir, FileName)
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. A held lock means another
// invocation is already mutating the same tree.
func (l *Lock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another vorleser instance is already running (lock %s)", l.path)
	}
	return nil
}

// Release drops the lock. Safe to call when the lock was never acquired.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}
