// Package instance enforces that only one daemon runs per user. It uses a
// kernel advisory lock, so a crashed process never leaves a stale guard
// behind.
package instance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/bnema/cursorlock/internal/logger"
)

// ErrAlreadyRunning is returned by Acquire when another process holds the
// guard.
var ErrAlreadyRunning = fmt.Errorf("another instance is already running")

// Guard holds the single-instance lock for the lifetime of the daemon.
type Guard struct {
	lock *flock.Flock
}

// LockPath returns the per-user lock file location.
func LockPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cursorlock.lock")
}

// Acquire takes the single-instance lock. It returns ErrAlreadyRunning
// without blocking when another process holds it.
func Acquire() (*Guard, error) {
	return AcquireAt(LockPath())
}

// AcquireAt takes the lock at an explicit path.
func AcquireAt(path string) (*Guard, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}

	logger.Debugf("Acquired instance lock at %s", path)
	return &Guard{lock: lock}, nil
}

// Release drops the lock. Safe to call once during shutdown.
func (g *Guard) Release() error {
	if g == nil || g.lock == nil {
		return nil
	}
	if err := g.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to release instance lock: %w", err)
	}
	return nil
}
