// Package monitor runs a command under latency instrumentation and reports once it
// returns.
package monitor

import (
	"context"
	"time"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/stats"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/logger"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/timing"
)

// Command is the monitored unit of work. Hostcalls it performs under ctx are
// recorded by the sink ctx carries.
type Command func(ctx context.Context) (exitCode int, err error)

// Monitor owns the main recorder of a run.
type Monitor struct {
	log       logger.Logger
	cal       cycleclock.Calibration
	discard   bool
	writer    *report.Writer
	path      string
	format    report.Format
	onSummary func(stats.Summary, time.Duration)
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger used for report failures and diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(m *Monitor) {
		m.log = log
	}
}

// WithCalibration sets the counter-to-nanosecond conversion.
func WithCalibration(cal cycleclock.Calibration) Option {
	return func(m *Monitor) {
		m.cal = cal
	}
}

// WithDiscardAnomalies drops samples whose end reading precedes the start reading.
func WithDiscardAnomalies(discard bool) Option {
	return func(m *Monitor) {
		m.discard = discard
	}
}

// WithReport sets the report destination and encoding.
func WithReport(path string, format report.Format) Option {
	return func(m *Monitor) {
		m.path = path
		m.format = format
	}
}

// WithFileCreator replaces the file system used to write the report.
func WithFileCreator(fs report.FileCreator) Option {
	return func(m *Monitor) {
		m.writer = report.NewWriter(fs)
	}
}

// WithSummaryHook registers fn to receive the summary and the command's wall time
// after the report is written.
func WithSummaryHook(fn func(stats.Summary, time.Duration)) Option {
	return func(m *Monitor) {
		m.onSummary = fn
	}
}

// New returns a Monitor writing a text report to report.DefaultPath at 2.1 GHz
// unless configured otherwise.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		log:    logger.NewNoOpLogger(),
		cal:    cycleclock.Default(),
		path:   report.DefaultPath,
		format: report.FormatText,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.writer == nil {
		m.writer = report.NewWriter(report.NewOSFileCreator())
	}

	return m
}

// Run executes cmd with a fresh recorder attached to ctx, then summarizes that
// recorder's store and writes the report exactly once. The command's exit code and
// error are returned unchanged; a report failure is logged, never returned. A panic
// in cmd propagates and no report is written.
func (m *Monitor) Run(ctx context.Context, cmd Command) (int, error) {
	rec := timing.NewRecorder(m.cal, timing.WithDiscardAnomalies(m.discard))
	began := time.Now()

	code, err := cmd(timing.WithSink(ctx, rec))

	m.report(rec.Store(), time.Since(began))

	return code, err
}

func (m *Monitor) report(store *timing.Store, elapsed time.Duration) {
	sum := stats.Summarize(store)

	if sum.Anomalies > 0 {
		m.log.Info("clock anomalies recorded",
			"count", sum.Anomalies,
			"discarded", m.discard,
		)
	}

	if err := m.writer.WriteFile(m.path, sum, m.format); err != nil {
		m.log.Error("writing latency report", "path", m.path, "error", err)
	} else {
		m.log.Debug("latency report written",
			"path", m.path,
			"format", m.format,
			"hostcalls", len(sum.Rows),
			"samples", sum.Count(),
		)
	}

	if m.onSummary != nil {
		m.onSummary(sum, elapsed)
	}
}
