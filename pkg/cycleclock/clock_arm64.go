//go:build arm64

package cycleclock

// isbCNTVCT executes ISB then reads CNTVCT_EL0. Implemented in clock_arm64.s.
func isbCNTVCT() uint64

// isbCNTVCTISB executes ISB, reads CNTVCT_EL0, then ISB again. Implemented in clock_arm64.s.
func isbCNTVCTISB() uint64

// cntfrq reads CNTFRQ_EL0. Implemented in clock_arm64.s.
func cntfrq() uint64

func start() uint64 {
	return isbCNTVCT()
}

func stop() uint64 {
	return isbCNTVCTISB()
}

func counterName() string {
	return "cntvct_el0"
}

func counterFrequency() (uint64, bool) {
	hz := cntfrq()

	return hz, hz != 0
}
