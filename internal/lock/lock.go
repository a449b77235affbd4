// Package lock guards a release run with an advisory file lock so that two
// local invocations cannot race each other against the same repository.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var errHeld = errors.New("another auto-release run is in progress")

// ErrHeld is returned when the lock file is owned by another process.
var ErrHeld = errHeld

// RunLock is an exclusive, non-blocking lock on a file.
type RunLock struct {
	path string
	fl   *flock.Flock
}

// DefaultPath returns the lock file used when none is configured.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "auto-release.lock")
}

// New creates a lock for path. The file is created on Acquire.
func New(path string) *RunLock {
	if path == "" {
		path = DefaultPath()
	}
	return &RunLock{path: path, fl: flock.New(path)}
}

// Path returns the lock file path.
func (l *RunLock) Path() string {
	return l.path
}

// Acquire takes the lock or fails immediately with ErrHeld.
func (l *RunLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("%w (lock: %s)", errHeld, l.path)
	}
	return nil
}

// Release drops the lock. Releasing an unheld lock is a no-op.
func (l *RunLock) Release() error {
	if !l.fl.Locked() {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.path, err)
	}
	return nil
}
