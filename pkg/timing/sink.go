package timing

import (
	"context"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

// Sink receives measured regions from a dispatch site.
type Sink interface {
	// Begin opens a region and reads the start counter.
	Begin()

	// Finish closes the innermost open region with an end reading taken by the caller.
	Finish(op hostcall.Op, end uint64)
}

var _ Sink = (*Recorder)(nil)

type sinkKey struct{}

// WithSink returns a context carrying s. Every hostcall invoked under the returned
// context is attributed to s.
func WithSink(ctx context.Context, s Sink) context.Context {
	return context.WithValue(ctx, sinkKey{}, s)
}

// SinkFrom returns the sink carried by ctx, if any.
func SinkFrom(ctx context.Context) (Sink, bool) {
	s, ok := ctx.Value(sinkKey{}).(Sink)

	return s, ok && s != nil
}
