//go:build !amd64 && !arm64

package cycleclock

import (
	"time"
)

// Without a usable cycle counter the monotonic clock stands in, one tick per
// nanosecond. Resolution and ordering guarantees are those of time.Now.
var epoch = time.Now()

func start() uint64 {
	return uint64(time.Since(epoch))
}

func stop() uint64 {
	return uint64(time.Since(epoch))
}

func counterName() string {
	return "monotonic"
}

func counterFrequency() (uint64, bool) {
	return uint64(time.Second), true
}
