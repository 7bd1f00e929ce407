// Package crashdump records diagnostics for panics that abort a run.
package crashdump

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/config"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

const (
	shortIDLength = 8
	panicNilStr   = "panic(nil)"
)

// CrashInfo is the content of one crash dump.
type CrashInfo struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	PanicValue string         `json:"panic_value"`
	StackTrace string         `json:"stack_trace"`
	Hostcall   string         `json:"hostcall,omitempty"`
	Args       []string       `json:"args"`
	Runtime    RuntimeInfo    `json:"runtime"`
	Version    string         `json:"version"`
	WorkingDir string         `json:"working_dir,omitempty"`
	Config     *config.Config `json:"config,omitempty"`
}

// RuntimeInfo describes the process that crashed.
type RuntimeInfo struct {
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	Counter      string `json:"counter"`
}

// Collector builds CrashInfo values.
type Collector struct {
	version string
}

// NewCollector creates a collector stamping dumps with version.
func NewCollector(version string) *Collector {
	return &Collector{version: version}
}

// Collect gathers crash information from a recovered panic. It must be called
// from the deferred recover so the stack still shows the panicking frames.
func (c *Collector) Collect(recovered any, args []string, cfg *config.Config) *CrashInfo {
	now := time.Now()
	panicValue := formatPanicValue(recovered)

	info := &CrashInfo{
		ID:         generateCrashID(now, panicValue),
		Timestamp:  now,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Hostcall:   unknownHostcall(recovered),
		Args:       args,
		Runtime: RuntimeInfo{
			GOOS:         runtime.GOOS,
			GOARCH:       runtime.GOARCH,
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			Counter:      cycleclock.Counter(),
		},
		Version: c.version,
		Config:  cfg,
	}

	if wd, err := os.Getwd(); err == nil {
		info.WorkingDir = wd
	}

	return info
}

// formatPanicValue converts a recovered panic value to a string.
func formatPanicValue(v any) string {
	if v == nil {
		return panicNilStr
	}

	if _, ok := v.(*runtime.PanicNilError); ok {
		return panicNilStr
	}

	if err, ok := v.(error); ok {
		return err.Error()
	}

	return fmt.Sprintf("%v", v)
}

// unknownHostcall returns the operation name when the panic is an unregistered
// hostcall.
func unknownHostcall(v any) string {
	err, ok := v.(error)
	if !ok {
		return ""
	}

	var unknown *hostcall.UnknownOperationError
	if errors.As(err, &unknown) {
		return unknown.Name
	}

	return ""
}

// generateCrashID returns crash-{timestamp}-{shortHash}.
func generateCrashID(timestamp time.Time, panicValue string) string {
	data := fmt.Sprintf("%d-%s", timestamp.UnixNano(), panicValue)
	hash := sha256.Sum256([]byte(data))
	shortHash := hex.EncodeToString(hash[:])[:shortIDLength]

	return fmt.Sprintf("crash-%s-%s", timestamp.Format("20060102T150405"), shortHash)
}
