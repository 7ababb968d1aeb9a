// Package lock provides the advisory file lock held while a process samples
// the pointer, so that two sgen processes never share one physical device.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created under the temporary directory.
const FileName = "sgen-motion.lock"

// ErrAlreadyLocked is returned when another sgen process is collecting
// pointer motion.
var ErrAlreadyLocked = errors.New("another sgen motion collection is already running")

// Flocker abstracts the subset of flock.Flock used for advisory locking.
type Flocker interface {
	TryLock() (bool, error)
	Unlock() error
}

// Lock wraps a Flocker to provide fail-fast advisory locking.
type Lock struct {
	flocker Flocker
	path    string
}

// New creates a Lock from the given Flocker.
func New(f Flocker) *Lock {
	return &Lock{flocker: f}
}

// NewFromPath creates a Lock backed by a file at the given path.
func NewFromPath(path string) *Lock {
	return &Lock{flocker: flock.New(path), path: path}
}

// DefaultPath returns the per-machine motion lock path.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), FileName)
}

// Path returns the lock file path, or "" for a Lock built with New.
func (l *Lock) Path() string {
	return l.path
}

// TryLock attempts a non-blocking lock acquisition. It returns
// ErrAlreadyLocked if the lock is held by another process, or wraps
// any underlying error from the Flocker.
func (l *Lock) TryLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := l.flocker.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring motion lock: %w", err)
	}
	if !ok {
		return ErrAlreadyLocked
	}
	return nil
}

// Unlock releases the advisory lock.
func (l *Lock) Unlock() error {
	if err := l.flocker.Unlock(); err != nil {
		return fmt.Errorf("releasing motion lock: %w", err)
	}
	return nil
}
