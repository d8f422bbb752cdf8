// Package filelock serializes config writes across taskdeck processes.
// A scripted CLI call and a running TUI can both save config.yml; an
// exclusive advisory lock on a sidecar file keeps those writes whole.
package filelock

import "os"

// Handle represents an acquired lock. It must be released exactly once.
type Handle struct {
	f *os.File
}

// Acquire takes the exclusive lock on the sidecar file at path, creating
// the file when absent. Callers block until the current holder releases.
func Acquire(path string) (*Handle, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //nolint:gosec // sidecar path from trusted config dir
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Handle{f: f}, nil
}

// Release drops the lock and closes the sidecar file.
func (h *Handle) Release() error {
	unlockErr := unlockFile(h.f)
	closeErr := h.f.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
