package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
)

const overheadIterations = 10000

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Show the cycle counter and its calibration",
	Long: `Show the processor, the cycle counter backing the measurements, the
cycles-per-nanosecond ratio of every calibration mode and the cost of a bare
Start/Stop pair.`,
	Args: cobra.NoArgs,
	RunE: runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)

	calibrateCmd.Flags().Float64("ghz", 0, "Nominal counter frequency for the fixed mode")
	calibrateCmd.Flags().Int("pin-cpu", -1, "Pin the measuring thread to this CPU")
}

func runCalibrate(cmd *cobra.Command, _ []string) error {
	cfg, _, closeLog, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "cpu:       %s\n", cpuName())
	fmt.Fprintf(w, "counter:   %s\n", cycleclock.Counter())

	for _, mode := range cycleclock.CalibrationModeValues() {
		cal, err := cycleclock.Calibrate(mode, cycleclock.Options{
			GHz:   cfg.Clock.GHz,
			Pause: cfg.Clock.CalibrationPause.ToDuration(),
			CPU:   cfg.Clock.GetPinCPU(),
		})

		printCalibration(w, mode, cal, err)
	}

	release, err := cycleclock.Pin(cfg.Clock.GetPinCPU())
	if err != nil {
		return err
	}
	defer release()

	overhead := cycleclock.Overhead(overheadIterations)
	fmt.Fprintf(w, "overhead:  %s units (best of %s pairs)\n",
		humanize.Comma(int64(overhead)), humanize.Comma(overheadIterations))

	return nil
}

func printCalibration(w io.Writer, mode cycleclock.CalibrationMode, cal cycleclock.Calibration, err error) {
	label := fmt.Sprintf("%-10s", mode.String()+":")

	if err != nil {
		fmt.Fprintf(w, "%s unavailable (%v)\n", label, err)

		return
	}

	fmt.Fprintf(w, "%s %.4f cycles/ns\n", label, cal.CyclesPerNanosecond)
}

func cpuName() string {
	name := cpuid.CPU.BrandName
	if name == "" {
		name = "unknown"
	}

	if cpuid.CPU.VendorString != "" {
		name += " (" + cpuid.CPU.VendorString + ")"
	}

	return name
}
