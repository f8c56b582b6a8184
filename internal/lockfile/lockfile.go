// Package lockfile enforces the single-daemon invariant with a pid lock
// file next to the IPC socket. A lock whose owner is gone is removed and
// re-acquired, so a crashed daemon never needs manual cleanup.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AlreadyRunningError reports that a live daemon already holds the lock.
type AlreadyRunningError struct {
	Path string
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("another instance is already running (lock held at %s)", e.Path)
}

// Lock is a held instance lock. Release it on shutdown.
type Lock struct {
	path string
	file *os.File
}

// AcquireForSocket takes the instance lock in the directory that holds
// socketPath. A stale lock left by a dead process is removed first.
func AcquireForSocket(socketPath string) (*Lock, error) {
	lockPath := filepath.Join(filepath.Dir(socketPath), "capitd.lock")

	if stale, err := isStale(lockPath); err == nil && stale {
		if err := os.Remove(lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("remove stale lock: %w", err)
		}
	}

	file, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, &AlreadyRunningError{Path: lockPath}
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	if _, err := fmt.Fprintf(file, "pid=%d\n", os.Getpid()); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Release drops the lock. Safe to call once at shutdown; removal errors
// are ignored since the stale-lock check recovers on the next start.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	l.file.Close()
	l.file = nil
	os.Remove(l.path)
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// isStale reports whether the lock at path names a process that no
// longer exists. Only meaningful on systems with /proc; elsewhere a held
// lock is trusted as live.
func isStale(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	pid, ok := parsePid(string(data))
	if !ok {
		// Unreadable contents: treat as stale rather than wedge forever.
		return true, nil
	}

	if _, err := os.Stat("/proc"); err != nil {
		return false, nil
	}
	if _, err := os.Stat(filepath.Join("/proc", strconv.Itoa(pid))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func parsePid(contents string) (int, bool) {
	for _, line := range strings.Split(contents, "\n") {
		rest, found := strings.CutPrefix(strings.TrimSpace(line), "pid=")
		if !found {
			continue
		}
		pid, err := strconv.Atoi(rest)
		if err != nil || pid <= 0 {
			return 0, false
		}
		return pid, true
	}
	return 0, false
}
