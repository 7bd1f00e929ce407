//go:build !linux

package cycleclock

import (
	"runtime"
)

// Pin locks the calling goroutine to its OS thread. Thread affinity is not
// available on this platform, so cpu is ignored.
func Pin(_ int) (func(), error) {
	runtime.LockOSThread()

	return runtime.UnlockOSThread, nil
}
