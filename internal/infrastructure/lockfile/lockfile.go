package lockfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// LockFile guards a shared artifact, such as the merged coverage file,
// against two benchmark processes writing it at once. The lock is a small
// file holding the owner's PID; a lock held by a dead process is treated
// as stale and reclaimed.
type LockFile struct {
	path string
}

// New creates a lock manager for the given path
func New(path string) *LockFile {
	return &LockFile{path: path}
}

// Acquire attempts to take the lock.
// Returns an error if another live process holds it.
func (l *LockFile) Acquire() error {
	if _, err := os.Stat(l.path); err == nil {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return fmt.Errorf("failed to read existing lock file: %w", err)
		}

		pidStr := strings.TrimSpace(string(data))
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			// Corrupt lock file - remove it and continue
			_ = os.Remove(l.path)
		} else {
			if isProcessRunning(pid) {
				return fmt.Errorf("another benchmark is already running (PID %d)", pid)
			}
			// Holder is dead - reclaim the stale lock
			_ = os.Remove(l.path)
		}
	}

	pidData := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(l.path, []byte(pidData), 0644); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}

// Release removes the lock file
func (l *LockFile) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// isProcessRunning checks if a process with the given PID is running
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 probes for existence without delivering anything
	return process.Signal(syscall.Signal(0)) == nil
}
