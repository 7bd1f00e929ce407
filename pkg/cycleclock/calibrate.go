package cycleclock

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/cpuid/v2"
)

//go:generate enumer -type=CalibrationMode -trimprefix=Mode -transform=lower -json -text -yaml

// CalibrationMode selects how counter units are converted to nanoseconds.
type CalibrationMode int

const (
	// ModeFixed uses a configured nominal frequency.
	ModeFixed CalibrationMode = iota

	// ModeMeasure times a busy-wait against the monotonic clock.
	ModeMeasure

	// ModeCPUID uses the frequency reported by the processor.
	ModeCPUID
)

const (
	// DefaultGHz is the nominal counter frequency used by ModeFixed.
	DefaultGHz = 2.1

	// DefaultPause is the busy-wait length used by ModeMeasure.
	DefaultPause = 50 * time.Millisecond
)

var (
	// ErrInvalidCalibration is returned for unusable calibration inputs.
	ErrInvalidCalibration = errors.New("invalid calibration")

	// ErrFrequencyUnknown is returned when the processor does not report its frequency.
	ErrFrequencyUnknown = errors.New("counter frequency unknown")
)

// Calibration converts counter deltas to nanoseconds.
type Calibration struct {
	CyclesPerNanosecond float64         `json:"cycles_per_nanosecond" yaml:"cycles_per_nanosecond"`
	Source              CalibrationMode `json:"source"                yaml:"source"`
}

// Options tunes Calibrate.
type Options struct {
	// GHz is the nominal frequency for ModeFixed.
	GHz float64

	// Pause is the busy-wait length for ModeMeasure.
	Pause time.Duration

	// CPU pins the measuring thread for ModeMeasure. Negative leaves it unpinned.
	CPU int
}

// Fixed returns a calibration for a nominal frequency in GHz.
func Fixed(ghz float64) Calibration {
	return Calibration{CyclesPerNanosecond: ghz, Source: ModeFixed}
}

// Default returns the nominal 2.1 GHz calibration.
func Default() Calibration {
	return Fixed(DefaultGHz)
}

// Nanoseconds converts an unsigned counter delta to nanoseconds.
func (c Calibration) Nanoseconds(delta uint64) float64 {
	return float64(delta) / c.CyclesPerNanosecond
}

// Validate reports whether the calibration can be used for conversion.
func (c Calibration) Validate() error {
	if c.CyclesPerNanosecond <= 0 || math.IsNaN(c.CyclesPerNanosecond) ||
		math.IsInf(c.CyclesPerNanosecond, 0) {
		return errors.Wrapf(ErrInvalidCalibration, "cycles per nanosecond %v", c.CyclesPerNanosecond)
	}

	return nil
}

// Calibrate resolves a calibration for the given mode.
//
// Counters with an architected frequency (CNTVCT_EL0, the monotonic fallback)
// ignore measurement and report the exact rate for ModeMeasure and ModeCPUID.
func Calibrate(mode CalibrationMode, opts Options) (Calibration, error) {
	if mode == ModeFixed {
		cal := Fixed(opts.GHz)

		return cal, cal.Validate()
	}

	if !mode.IsACalibrationMode() {
		return Calibration{}, errors.Wrapf(ErrInvalidCalibration, "mode %d", int(mode))
	}

	if hz, ok := counterFrequency(); ok {
		return Calibration{CyclesPerNanosecond: float64(hz) / 1e9, Source: mode}, nil
	}

	switch mode {
	case ModeCPUID:
		return fromCPUID()
	default:
		return measure(opts.Pause, opts.CPU)
	}
}

func fromCPUID() (Calibration, error) {
	hz := cpuid.CPU.Hz
	if hz <= 0 {
		hz = cpuid.CPU.BoostFreq
	}

	if hz <= 0 {
		return Calibration{}, errors.Wrapf(ErrFrequencyUnknown, "cpu %q", cpuid.CPU.BrandName)
	}

	return Calibration{CyclesPerNanosecond: float64(hz) / 1e9, Source: ModeCPUID}, nil
}

func measure(pause time.Duration, cpu int) (Calibration, error) {
	if pause <= 0 {
		return Calibration{}, errors.Wrapf(ErrInvalidCalibration, "pause %s", pause)
	}

	release, err := Pin(cpu)
	if err != nil {
		return Calibration{}, errors.Wrap(err, "pinning calibration thread")
	}
	defer release()

	begin := time.Now()
	s := Start()

	for time.Since(begin) < pause {
	}

	e := Stop()
	elapsed := time.Since(begin)

	if e <= s || elapsed <= 0 {
		return Calibration{}, errors.Wrapf(ErrInvalidCalibration,
			"counter did not advance over %s", elapsed)
	}

	cal := Calibration{
		CyclesPerNanosecond: float64(e-s) / float64(elapsed.Nanoseconds()),
		Source:              ModeMeasure,
	}

	return cal, cal.Validate()
}
