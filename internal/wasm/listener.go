// Package wasm runs WebAssembly modules on wazero with WASI hostcalls instrumented.
package wasm

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/logger"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/timing"
)

// WASIModule is the host module whose functions are measured.
const WASIModule = "wasi_snapshot_preview1"

// ListenerFactory attaches a hostcallListener to every registered WASI function.
type ListenerFactory struct {
	log logger.Logger
}

var _ experimental.FunctionListenerFactory = (*ListenerFactory)(nil)

// NewListenerFactory returns a factory for instrumented WASI hostcalls.
func NewListenerFactory(log logger.Logger) *ListenerFactory {
	return &ListenerFactory{log: log}
}

// NewFunctionListener returns a listener for WASI functions in the registry and
// nil for everything else.
//
//nolint:ireturn // required by experimental.FunctionListenerFactory
func (f *ListenerFactory) NewFunctionListener(def api.FunctionDefinition) experimental.FunctionListener {
	if def.ModuleName() != WASIModule {
		return nil
	}

	op, ok := resolve(def)
	if !ok {
		f.log.Debug("hostcall not instrumented", "function", def.DebugName())

		return nil
	}

	return &hostcallListener{op: op}
}

func resolve(def api.FunctionDefinition) (hostcall.Op, bool) {
	if op, err := hostcall.Lookup(def.Name()); err == nil {
		return op, true
	}

	for _, name := range def.ExportNames() {
		if op, err := hostcall.Lookup(name); err == nil {
			return op, true
		}
	}

	return 0, false
}

// hostcallListener brackets one hostcall with counter readings. The start reading
// is the last thing Before does and the end reading the first thing After does.
type hostcallListener struct {
	op hostcall.Op
}

func (*hostcallListener) Before(
	ctx context.Context,
	_ api.Module,
	_ api.FunctionDefinition,
	_ []uint64,
	_ experimental.StackIterator,
) {
	if sink, ok := timing.SinkFrom(ctx); ok {
		sink.Begin()
	}
}

func (l *hostcallListener) After(ctx context.Context, _ api.Module, _ api.FunctionDefinition, _ []uint64) {
	l.finish(ctx, cycleclock.Stop())
}

// Abort covers proc_exit and traps inside the host function; the body ran, so the
// call is recorded like a normal return.
func (l *hostcallListener) Abort(ctx context.Context, _ api.Module, _ api.FunctionDefinition, _ error) {
	l.finish(ctx, cycleclock.Stop())
}

func (l *hostcallListener) finish(ctx context.Context, end uint64) {
	if sink, ok := timing.SinkFrom(ctx); ok {
		sink.Finish(l.op, end)
	}
}
