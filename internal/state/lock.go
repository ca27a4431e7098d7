package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcquireLock takes the state-directory lock, failing fast when another run
// holds it. The returned release function must be called once the run's
// state is flushed.
func AcquireLock(dir string) (release func(), err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, ".hondana.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire state lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("state directory %s is locked by another run", dir)
	}
	return func() { _ = lock.Unlock() }, nil
}
