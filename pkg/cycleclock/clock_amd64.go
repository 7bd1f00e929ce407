//go:build amd64

package cycleclock

import (
	"github.com/klauspost/cpuid/v2"
)

// hasRDTSCP selects the stop sequence once; every x86-64 part since Nehalem has it.
var hasRDTSCP = cpuid.CPU.Supports(cpuid.RDTSCP)

// cpuidRDTSC executes CPUID then RDTSC. Implemented in clock_amd64.s.
func cpuidRDTSC() uint64

// rdtscpCPUID executes RDTSCP then CPUID. Implemented in clock_amd64.s.
func rdtscpCPUID() uint64

// lfenceRDTSCCPUID executes LFENCE, RDTSC then CPUID. Implemented in clock_amd64.s.
func lfenceRDTSCCPUID() uint64

func start() uint64 {
	return cpuidRDTSC()
}

func stop() uint64 {
	if hasRDTSCP {
		return rdtscpCPUID()
	}

	return lfenceRDTSCCPUID()
}

func counterName() string {
	return "rdtsc"
}

// counterFrequency is not architecturally readable for the TSC.
func counterFrequency() (uint64, bool) {
	return 0, false
}
