package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// LockFileName is the run lock inside the working-copy marker directory.
const LockFileName = "drivecheck.pid"

// lockFilePermissions matches the standard config file permissions (owner rw, group/other r).
const lockFilePermissions = 0o644

// ErrLocked means another harness run holds the working copy.
var ErrLocked = errors.New("another drivecheck run is using this test directory")

// acquireLock writes the current process ID to path and takes an exclusive
// flock on it. The returned release func removes the file and drops the
// lock. The marker directory must already exist.
func acquireLock(path string) (release func(), err error) {
	if path == "" {
		return nil, fmt.Errorf("lock file path is empty")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	// Non-blocking: fail at once when another run holds it.
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()

		if pid, readErr := readLockPID(path); readErr == nil {
			return nil, fmt.Errorf("%w (PID %d holds %s)", ErrLocked, pid, path)
		}

		return nil, fmt.Errorf("%w (could not lock %s)", ErrLocked, path)
	}

	if err := f.Truncate(0); err != nil {
		f.Close()

		return nil, fmt.Errorf("truncating lock file: %w", err)
	}

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		f.Close()

		return nil, fmt.Errorf("writing lock file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()

		return nil, fmt.Errorf("syncing lock file: %w", err)
	}

	return func() {
		os.Remove(path)
		f.Close()
	}, nil
}

// readLockPID reads the PID of the run holding path.
func readLockPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in %s: %w", path, err)
	}

	return pid, nil
}

func lockPath(testDir, marker string) string {
	return filepath.Join(testDir, marker, LockFileName)
}
