package timing

import (
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

// Recorder converts counter readings into durations and appends them to its Store.
// A Recorder is not safe for concurrent use.
type Recorder struct {
	cal              cycleclock.Calibration
	discardAnomalies bool

	store   *Store
	pending []uint64
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithDiscardAnomalies drops samples whose end reading is below the start reading.
// They are counted either way.
func WithDiscardAnomalies(discard bool) Option {
	return func(r *Recorder) {
		r.discardAnomalies = discard
	}
}

// NewRecorder returns a recorder converting with cal.
func NewRecorder(cal cycleclock.Calibration, opts ...Option) *Recorder {
	r := &Recorder{cal: cal}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Calibration returns the conversion in use.
func (r *Recorder) Calibration() cycleclock.Calibration {
	return r.cal
}

// Store returns the recorder's store, creating it on first use.
func (r *Recorder) Store() *Store {
	if r.store == nil {
		r.store = NewStore()
	}

	return r.store
}

// Push records one invocation of the named hostcall.
//
// A name outside the registry is a programming error in the dispatch layer: Push
// panics with an *hostcall.UnknownOperationError and records nothing.
func (r *Recorder) Push(name string, start, end uint64) {
	if err := r.TryPush(name, start, end); err != nil {
		panic(err)
	}
}

// TryPush is like Push but returns the unknown-operation error instead of panicking.
func (r *Recorder) TryPush(name string, start, end uint64) error {
	op, err := hostcall.Lookup(name)
	if err != nil {
		return err
	}

	r.PushOp(op, start, end)

	return nil
}

// PushOp records one invocation of op. The duration is the unsigned counter delta
// divided by the calibrated rate, so a reversed pair wraps to a very large value.
func (r *Recorder) PushOp(op hostcall.Op, start, end uint64) {
	store := r.Store()

	if end < start {
		store.anomalies++

		if r.discardAnomalies {
			return
		}
	}

	store.append(op, r.cal.Nanoseconds(end-start))
}

// Begin opens a measured region. The counter is read as the last action so that
// the bookkeeping here stays outside the region.
func (r *Recorder) Begin() {
	r.pending = append(r.pending, 0)
	r.pending[len(r.pending)-1] = cycleclock.Start()
}

// Finish closes the innermost region opened by Begin, attributing it to op.
// A Finish without a matching Begin is ignored.
func (r *Recorder) Finish(op hostcall.Op, end uint64) {
	n := len(r.pending)
	if n == 0 {
		return
	}

	start := r.pending[n-1]
	r.pending = r.pending[:n-1]

	r.PushOp(op, start, end)
}

// Measure runs fn as one measured invocation of op and returns its error.
func (r *Recorder) Measure(op hostcall.Op, fn func() error) error {
	r.Begin()
	err := fn()
	end := cycleclock.Stop()

	r.Finish(op, end)

	return err
}
