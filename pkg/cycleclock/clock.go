// Package cycleclock reads a hardware cycle counter around a measured region.
//
// Start serializes the pipeline and then reads the counter, so everything issued
// before the call has retired. Stop reads the counter only after the measured
// instructions have completed and serializes again, so later code cannot be hoisted
// above the read. Two readings are only comparable when taken on the same OS thread
// without a core migration in between; callers that need that guarantee use Pin.
package cycleclock

// Start returns a counter reading taken after a serializing barrier.
func Start() uint64 {
	return start()
}

// Stop returns a counter reading that reflects completion of the measured region.
func Stop() uint64 {
	return stop()
}

// Counter names the counter backing Start and Stop on this platform.
func Counter() string {
	return counterName()
}

// Overhead returns the smallest Start to Stop delta observed over the given number
// of back-to-back pairs, in counter units.
func Overhead(iterations int) uint64 {
	if iterations <= 0 {
		iterations = 1
	}

	best := ^uint64(0)

	for range iterations {
		s := Start()
		e := Stop()

		if d := e - s; e >= s && d < best {
			best = d
		}
	}

	if best == ^uint64(0) {
		return 0
	}

	return best
}
