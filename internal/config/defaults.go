// Package config provides internal configuration loading and processing.
package config

import (
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/wasm"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/config"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
)

const (
	// DefaultCalibrationPause is the busy-wait length of the measure mode.
	DefaultCalibrationPause = cycleclock.DefaultPause

	// DefaultPinCPU leaves the thread unpinned.
	DefaultPinCPU = -1
)

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *config.Config {
	summary := false
	discard := false
	pin := DefaultPinCPU

	return &config.Config{
		Report: &config.ReportConfig{
			Path:    report.DefaultPath,
			Format:  report.FormatText.String(),
			Summary: &summary,
		},
		Clock: &config.ClockConfig{
			Mode:             cycleclock.ModeFixed.String(),
			GHz:              cycleclock.DefaultGHz,
			CalibrationPause: config.Duration(DefaultCalibrationPause),
			PinCPU:           &pin,
		},
		Samples: &config.SamplesConfig{
			DiscardAnomalies: &discard,
		},
		Runtime: &config.RuntimeConfig{
			Engine: string(wasm.EngineAuto),
		},
		Log: &config.LogConfig{},
	}
}

// defaultsToMap converts DefaultConfig to a map for koanf loading.
func defaultsToMap() map[string]any {
	return map[string]any{
		"report": map[string]any{
			"path":    report.DefaultPath,
			"format":  report.FormatText.String(),
			"summary": false,
		},
		"clock": map[string]any{
			"mode":              cycleclock.ModeFixed.String(),
			"ghz":               cycleclock.DefaultGHz,
			"calibration_pause": DefaultCalibrationPause.String(),
			"pin_cpu":           DefaultPinCPU,
		},
		"samples": map[string]any{
			"discard_anomalies": false,
		},
		"runtime": map[string]any{
			"engine":    string(wasm.EngineAuto),
			"cache_dir": "",
		},
		"log": map[string]any{
			"file": "",
		},
	}
}

