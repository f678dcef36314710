// Package slicelock keeps two processes on one host from running the same
// slice of the same command against the same output directory.
package slicelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"curator/internal/partition"
)

// ErrHeld is returned when another process owns the slice lock.
var ErrHeld = errors.New("slice already running")

// Lock is an acquired slice lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Path returns the lock file name for command and slice inside dir.
func Path(dir, command string, slice partition.Spec) string {
	return filepath.Join(dir, fmt.Sprintf(".curator-%s-slice-%d-of-%d.lock", command, slice.SliceID, slice.NumSlices))
}

// Acquire takes the slice lock without blocking.
func Acquire(dir, command string, slice partition.Spec) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := Path(dir, command, slice)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s slice %s holds %s", ErrHeld, command, slice, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release unlocks and removes the lock file.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	_ = os.Remove(l.path)
	return nil
}
