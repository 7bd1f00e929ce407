// Package config provides configuration schema types for hostcall-timing.
package config

// Config represents the root configuration.
type Config struct {
	// Report controls where and how the latency report is written.
	Report *ReportConfig `json:"report,omitempty" koanf:"report" toml:"report,omitempty"`

	// Clock controls counter calibration and thread pinning.
	Clock *ClockConfig `json:"clock,omitempty" koanf:"clock" toml:"clock,omitempty"`

	// Samples controls how raw samples are recorded.
	Samples *SamplesConfig `json:"samples,omitempty" koanf:"samples" toml:"samples,omitempty"`

	// Runtime controls the WebAssembly runtime.
	Runtime *RuntimeConfig `json:"runtime,omitempty" koanf:"runtime" toml:"runtime,omitempty"`

	// Log controls diagnostic logging.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty"`
}

// ReportConfig configures the latency report.
type ReportConfig struct {
	// Path is the report file, relative to the working directory.
	// Default: "./wasmtime_results.txt"
	Path string `json:"path,omitempty" koanf:"path" toml:"path,omitempty"`

	// Format is the report encoding: "text", "json" or "yaml".
	// Default: "text"
	Format string `json:"format,omitempty" koanf:"format" toml:"format,omitempty" jsonschema:"enum=text,enum=json,enum=yaml"`

	// Summary prints a table of the report to stderr after the run.
	// Default: false
	Summary *bool `json:"summary,omitempty" koanf:"summary" toml:"summary,omitempty"`
}

// ClockConfig configures counter calibration.
type ClockConfig struct {
	// Mode selects the calibration: "fixed", "measure" or "cpuid".
	// Default: "fixed"
	Mode string `json:"mode,omitempty" koanf:"mode" toml:"mode,omitempty" jsonschema:"enum=fixed,enum=measure,enum=cpuid"`

	// GHz is the nominal counter frequency used by the fixed mode.
	// Default: 2.1
	GHz float64 `json:"ghz,omitempty" koanf:"ghz" toml:"ghz,omitempty"`

	// CalibrationPause is the busy-wait length used by the measure mode.
	// Default: "50ms"
	CalibrationPause Duration `json:"calibration_pause,omitempty" koanf:"calibration_pause" toml:"calibration_pause,omitempty"`

	// PinCPU pins the running thread to a CPU. -1 leaves it unpinned.
	// Default: -1
	PinCPU *int `json:"pin_cpu,omitempty" koanf:"pin_cpu" toml:"pin_cpu,omitempty"`
}

// SamplesConfig configures sample recording.
type SamplesConfig struct {
	// DiscardAnomalies drops samples whose end reading precedes the start reading.
	// Default: false (keep the wrapped value)
	DiscardAnomalies *bool `json:"discard_anomalies,omitempty" koanf:"discard_anomalies" toml:"discard_anomalies,omitempty"`
}

// RuntimeConfig configures the WebAssembly runtime.
type RuntimeConfig struct {
	// Engine is "auto", "compiler" or "interpreter".
	// Default: "auto"
	Engine string `json:"engine,omitempty" koanf:"engine" toml:"engine,omitempty" jsonschema:"enum=auto,enum=compiler,enum=interpreter"`

	// CacheDir enables the on-disk compilation cache.
	CacheDir string `json:"cache_dir,omitempty" koanf:"cache_dir" toml:"cache_dir,omitempty"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// File receives log lines. Empty means stderr.
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`
}

// IsSummaryEnabled returns whether the summary table is printed.
func (c *ReportConfig) IsSummaryEnabled() bool {
	return c != nil && c.Summary != nil && *c.Summary
}

// GetPinCPU returns the CPU to pin to, or -1.
func (c *ClockConfig) GetPinCPU() int {
	if c == nil || c.PinCPU == nil {
		return -1
	}

	return *c.PinCPU
}

// IsDiscardAnomaliesEnabled returns whether anomalous samples are dropped.
func (c *SamplesConfig) IsDiscardAnomaliesEnabled() bool {
	return c != nil && c.DiscardAnomalies != nil && *c.DiscardAnomalies
}
