//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// LockFileEx flags; x/sys/windows does not export them.
const (
	exclusiveLock   = 0x00000002
	failImmediately = 0x00000001
)

const retryInterval = time.Millisecond

// lockFile polls LockFileEx rather than blocking in it. A blocking
// LockFileEx call pins the OS thread and can starve the Go scheduler.
func lockFile(f *os.File) error {
	ol := new(windows.Overlapped)
	for {
		err := windows.LockFileEx(
			windows.Handle(f.Fd()),
			exclusiveLock|failImmediately,
			0, // reserved
			1, // lock one byte
			0, // high word
			ol,
		)
		if err == nil {
			return nil
		}
		// A lock violation means another handle holds the lock; anything
		// else is a real failure.
		if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return err
		}
		time.Sleep(retryInterval)
	}
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(
		windows.Handle(f.Fd()),
		0, // reserved
		1, // unlock one byte
		0, // high word
		new(windows.Overlapped),
	)
}
