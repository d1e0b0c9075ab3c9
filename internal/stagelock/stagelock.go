// Package stagelock keeps two instances of a stage from writing the same
// output directory.
package stagelock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"deepaclive/internal/services"
)

// Lock is a held stage lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Path returns the lock file location.
func Path(stateDir, stage, outputDir string) string {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		abs = outputDir
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(stateDir, fmt.Sprintf("%s-%s.lock", stage, hex.EncodeToString(sum[:])[:12]))
}

// Acquire takes the exclusive lock for stage writing into outputDir. It fails
// immediately when another process holds it.
func Acquire(stateDir, stage, outputDir string) (*Lock, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}
	path := Path(stateDir, stage, outputDir)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, stage, "lock",
			fmt.Sprintf("another %s is already writing to %s (lock %s)", stage, outputDir, path), nil)
	}
	return &Lock{path: path, lock: lock}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks the stage. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
