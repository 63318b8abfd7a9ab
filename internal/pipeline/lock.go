package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by AcquireLock when another run holds the lock for
// the same target directory.
var ErrLocked = errors.New("another texup run is already processing this directory")

// RunLock is an advisory file lock keyed by the absolute target directory.
type RunLock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the lock file used for targetDir under lockDir.
func LockPath(lockDir, targetDir string) (string, error) {
	abs, err := filepath.Abs(targetDir)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(lockDir, "texup-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// AcquireLock takes the run lock for targetDir without blocking. The lock
// lives in os.TempDir so the mod folder is never written to.
func AcquireLock(targetDir string) (*RunLock, error) {
	return acquireLockIn(os.TempDir(), targetDir)
}

func acquireLockIn(lockDir, targetDir string) (*RunLock, error) {
	path, err := LockPath(lockDir, targetDir)
	if err != nil {
		return nil, fmt.Errorf("resolve lock path: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &RunLock{path: path, lock: fl}, nil
}

// Path returns the lock file path.
func (l *RunLock) Path() string { return l.path }

// Release unlocks. The lock file is left in place; removing it would race
// with a run that opened it before the unlock.
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}
