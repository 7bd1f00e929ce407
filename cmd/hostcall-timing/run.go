package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/color"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/monitor"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/stats"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/wasm"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/config"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
)

var (
	runDirs   []string
	runEnv    []string
	runInvoke string
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <module.wasm> [args...]",
	Short: "Run a WebAssembly module and report hostcall latency",
	Long: `Run a WebAssembly module under WASI and report hostcall latency.

The report is written after the module returns, whether it succeeded or not.
The process exits with the module's exit status.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Everything after the module path belongs to the guest.
	runCmd.Flags().SetInterspersed(false)

	runCmd.Flags().StringArrayVar(&runDirs, "dir", nil, "Preopen a host directory as HOST[:GUEST]")
	runCmd.Flags().StringArrayVar(&runEnv, "env", nil, "Pass an environment variable as KEY=VALUE or KEY")
	runCmd.Flags().StringVar(&runInvoke, "invoke", "", "Call this export instead of _start")
	runCmd.Flags().String("engine", "", "Execution engine (auto, compiler, interpreter)")
	runCmd.Flags().String("cache-dir", "", "Compilation cache directory")
	runCmd.Flags().String("report", "", "Report path (default ./wasmtime_results.txt)")
	runCmd.Flags().String("format", "", "Report format (text, json, yaml)")
	runCmd.Flags().String("clock-mode", "", "Calibration mode (fixed, measure, cpuid)")
	runCmd.Flags().Float64("ghz", 0, "Nominal counter frequency for the fixed mode")
	runCmd.Flags().Int("pin-cpu", -1, "Pin the running thread to this CPU")
	runCmd.Flags().Bool("discard-anomalies", false, "Drop samples whose end reading precedes the start")
	runCmd.Flags().Bool("summary", false, "Print a latency table to stderr after the run")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	cal, err := resolveCalibration(cfg.Clock)
	if err != nil {
		return err
	}

	log.Debug("calibrated counter",
		"counter", cycleclock.Counter(),
		"source", cal.Source,
		"cycles_per_ns", cal.CyclesPerNanosecond,
	)

	engine, err := wasm.ParseEngine(cfg.Runtime.Engine)
	if err != nil {
		return err
	}

	format, err := report.FormatString(cfg.Report.Format)
	if err != nil {
		return errors.Wrap(err, "report format")
	}

	opts := []monitor.Option{
		monitor.WithLogger(log),
		monitor.WithCalibration(cal),
		monitor.WithDiscardAnomalies(cfg.Samples.IsDiscardAnomaliesEnabled()),
		monitor.WithReport(cfg.Report.Path, format),
	}

	if cfg.Report.IsSummaryEnabled() {
		theme := color.NewTheme(color.Profile(noColorFlag, os.Stderr))

		opts = append(opts, monitor.WithSummaryHook(func(sum stats.Summary, elapsed time.Duration) {
			printSummary(cmd, sum, elapsed, theme)
		}))
	}

	runner := wasm.NewRunner(log, wasm.WithEngine(engine), wasm.WithCacheDir(cfg.Runtime.CacheDir))

	release, err := cycleclock.Pin(cfg.Clock.GetPinCPU())
	if err != nil {
		return err
	}
	defer release()

	code, err := monitor.New(opts...).Run(cmd.Context(), func(ctx context.Context) (int, error) {
		exit, err := runner.Run(ctx, wasm.RunOptions{
			Path:   args[0],
			Args:   args[1:],
			Env:    runEnv,
			Dirs:   runDirs,
			Invoke: runInvoke,
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		})

		return int(exit), err
	})
	if err != nil {
		return err
	}

	if code != 0 {
		log.Debug("module exited", "code", code)

		return &exitCodeError{code: code}
	}

	return nil
}

// resolveCalibration resolves the counter conversion selected by cfg.
func resolveCalibration(cfg *config.ClockConfig) (cycleclock.Calibration, error) {
	mode, err := cycleclock.CalibrationModeString(cfg.Mode)
	if err != nil {
		return cycleclock.Calibration{}, errors.Wrap(err, "clock mode")
	}

	cal, err := cycleclock.Calibrate(mode, cycleclock.Options{
		GHz:   cfg.GHz,
		Pause: cfg.CalibrationPause.ToDuration(),
		CPU:   cfg.GetPinCPU(),
	})
	if err != nil {
		return cycleclock.Calibration{}, errors.Wrap(err, "calibrating counter")
	}

	return cal, nil
}

func printSummary(cmd *cobra.Command, sum stats.Summary, elapsed time.Duration, theme color.Theme) {
	w := cmd.ErrOrStderr()

	if table := report.RenderTable(sum, theme); table != "" {
		fmt.Fprintln(w, table)
	} else {
		fmt.Fprintln(w, theme.Muted.Render("no hostcalls recorded"))
	}

	fmt.Fprintln(w, theme.Muted.Render("wall time "+durafmt.Parse(elapsed).LimitFirstN(2).String()))
}
