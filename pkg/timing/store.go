// Package timing accumulates per-hostcall latency samples.
//
// A Store belongs to exactly one goroutine and is never locked. Goroutines that
// record concurrently each own a Recorder, and with it a Store, so their samples
// never mix.
package timing

import (
	"slices"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

// Store holds one append-only sample set per registered hostcall.
type Store struct {
	samples   [hostcall.NumOps][]float64
	anomalies int
}

// NewStore returns a store with an empty sample set for every registered hostcall.
func NewStore() *Store {
	return &Store{}
}

// Samples returns the durations recorded for op, in push order. The result must
// not be modified.
func (s *Store) Samples(op hostcall.Op) []float64 {
	if !op.Valid() {
		return nil
	}

	return slices.Clip(s.samples[op])
}

// Len returns the number of samples recorded for op.
func (s *Store) Len(op hostcall.Op) int {
	if !op.Valid() {
		return 0
	}

	return len(s.samples[op])
}

// Each calls fn for every registered hostcall in registry order, including those
// without samples.
func (s *Store) Each(fn func(op hostcall.Op, samples []float64)) {
	for i := range s.samples {
		fn(hostcall.Op(i), slices.Clip(s.samples[i]))
	}
}

// Total returns the number of samples across all hostcalls.
func (s *Store) Total() int {
	n := 0
	for i := range s.samples {
		n += len(s.samples[i])
	}

	return n
}

// Anomalies returns how many pushes had an end reading below the start reading.
func (s *Store) Anomalies() int {
	return s.anomalies
}

func (s *Store) append(op hostcall.Op, d float64) {
	s.samples[op] = append(s.samples[op], d)
}
