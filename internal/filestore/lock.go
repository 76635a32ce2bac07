package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockDir holds one advisory lock file per written directory, outside the
// project so scans and watches never see it.
var lockDir = filepath.Join(os.TempDir(), "filetree-locks")

// dirLock serialises writers of one directory across processes.
type dirLock struct {
	flock *flock.Flock
}

func newDirLock(dir string) *dirLock {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	sum := sha256.Sum256([]byte(abs))
	name := hex.EncodeToString(sum[:8]) + ".lock"
	return &dirLock{flock: flock.New(filepath.Join(lockDir, name))}
}

// lock blocks until the lock is held.
func (l *dirLock) lock() error {
	if err := os.MkdirAll(filepath.Dir(l.flock.Path()), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	return nil
}

func (l *dirLock) unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// withLock runs fn while holding the lock of dir.
func withLock(dir string, fn func() error) error {
	l := newDirLock(dir)
	if err := l.lock(); err != nil {
		return err
	}
	defer func() { _ = l.unlock() }()
	return fn()
}
