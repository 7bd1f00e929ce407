package config

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/wasm"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/config"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")

	// ErrInvalidOption is returned when an option value is invalid.
	ErrInvalidOption = errors.New("invalid option value")

	// ErrOutOfRange is returned when a numeric value is outside its range.
	ErrOutOfRange = errors.New("value out of range")
)

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if cfg.Report != nil {
		validationErrors = append(validationErrors, v.validateReportConfig(cfg.Report)...)
	}

	if cfg.Clock != nil {
		validationErrors = append(validationErrors, v.validateClockConfig(cfg.Clock)...)
	}

	if cfg.Runtime != nil {
		validationErrors = append(validationErrors, v.validateRuntimeConfig(cfg.Runtime)...)
	}

	if len(validationErrors) > 0 {
		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

func (*Validator) validateReportConfig(cfg *config.ReportConfig) []error {
	var validationErrors []error

	if cfg.Path == "" {
		validationErrors = append(validationErrors, errors.WithMessage(ErrEmptyValue, "report.path"))
	}

	if _, err := report.FormatString(cfg.Format); err != nil {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidOption,
			"report.format must be one of %v, got %q",
			report.FormatStrings(),
			cfg.Format,
		))
	}

	return validationErrors
}

func (*Validator) validateClockConfig(cfg *config.ClockConfig) []error {
	var validationErrors []error

	mode, err := cycleclock.CalibrationModeString(cfg.Mode)
	if err != nil {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrInvalidOption,
			"clock.mode must be one of %v, got %q",
			cycleclock.CalibrationModeStrings(),
			cfg.Mode,
		))
	}

	if err == nil {
		validationErrors = append(validationErrors, validateModeInputs(mode, cfg)...)
	}

	if pin := cfg.GetPinCPU(); pin < -1 {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrOutOfRange,
			"clock.pin_cpu must be -1 or a CPU index, got %d",
			pin,
		))
	}

	return validationErrors
}

// validateModeInputs checks the inputs the selected calibration mode consumes.
func validateModeInputs(mode cycleclock.CalibrationMode, cfg *config.ClockConfig) []error {
	switch mode {
	case cycleclock.ModeFixed:
		if cfg.GHz <= 0 || math.IsNaN(cfg.GHz) || math.IsInf(cfg.GHz, 0) {
			return []error{errors.Wrapf(ErrOutOfRange, "clock.ghz must be positive, got %v", cfg.GHz)}
		}
	case cycleclock.ModeMeasure:
		if cfg.CalibrationPause <= 0 {
			return []error{errors.Wrapf(
				ErrOutOfRange,
				"clock.calibration_pause must be positive, got %s",
				cfg.CalibrationPause,
			)}
		}
	case cycleclock.ModeCPUID:
	}

	return nil
}

func (*Validator) validateRuntimeConfig(cfg *config.RuntimeConfig) []error {
	if _, err := wasm.ParseEngine(cfg.Engine); err != nil {
		return []error{errors.Wrap(err, "runtime.engine")}
	}

	return nil
}

// combineErrors combines multiple errors into a single error.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
