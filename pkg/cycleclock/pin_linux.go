//go:build linux

package cycleclock

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its OS thread and, when cpu is not negative,
// restricts that thread to the given CPU. The returned release restores the previous
// affinity and unlocks the thread.
func Pin(cpu int) (func(), error) {
	runtime.LockOSThread()

	if cpu < 0 {
		return runtime.UnlockOSThread, nil
	}

	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		runtime.UnlockOSThread()

		return nil, errors.Wrap(err, "reading thread affinity")
	}

	var set unix.CPUSet
	set.Set(cpu)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		runtime.UnlockOSThread()

		return nil, errors.Wrapf(err, "pinning thread to cpu %d", cpu)
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &prev)

		runtime.UnlockOSThread()
	}, nil
}
