// Package main provides the CLI entry point for hostcall-timing.
package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	internalconfig "github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/config"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/crashdump"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/xdg"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/config"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/logger"
)

const (
	// ExitCodeOK indicates success.
	ExitCodeOK = 0

	// ExitCodeError indicates a failure to set up or run the module.
	ExitCodeError = 1

	// ExitCodeCrash indicates an unexpected panic, such as an unregistered hostcall.
	ExitCodeCrash = 3
)

var (
	debugMode   bool
	traceMode   bool
	noColorFlag bool
	configPath  string

	// crashConfig is the loaded configuration, attached to crash dumps.
	crashConfig *config.Config
)

// exitCodeError carries a guest exit status through cobra.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			handlePanic(r)

			exitCode = ExitCodeCrash
		}
	}()

	rootCmd.SetArgs(defaultToRun(rootCmd, os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitCodeError
	}

	return ExitCodeOK
}

// handlePanic reports a recovered panic and writes a crash dump.
func handlePanic(r any) {
	info := crashdump.NewCollector(version).Collect(r, os.Args[1:], crashConfig)

	fmt.Fprintf(os.Stderr, "hostcall-timing: crashed: %s\n", info.PanicValue)

	w, err := crashdump.NewWriter(xdg.CrashDumpDir())
	if err != nil {
		return
	}

	path, err := w.Write(info)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hostcall-timing: %v\n", err)

		return
	}

	fmt.Fprintf(os.Stderr, "crash dump written to %s\n", path)
}

var rootCmd = &cobra.Command{
	Use:   "hostcall-timing",
	Short: "Run WebAssembly modules and report WASI hostcall latency",
	Long: `Run WebAssembly modules and report WASI hostcall latency.

Every WASI hostcall made by the guest is timed with the processor's cycle counter.
When the module exits, per-hostcall sample counts with arithmetic and geometric
mean latencies in nanoseconds are written to ./wasmtime_results.txt.

Without a subcommand, arguments are passed to "run".`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if versionRequested {
			printVersion(cmd.OutOrStdout())

			return nil
		}

		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to project configuration file (default: .hostcall-timing.toml or hostcall-timing.toml)",
	)
	rootCmd.PersistentFlags().String(
		"log-file",
		"",
		"Append log lines to this file instead of stderr",
	)
}

// defaultToRun prepends "run" unless args already start with a subcommand or a
// root-level flag.
func defaultToRun(root *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return args
	}

	first := args[0]
	if strings.HasPrefix(first, "-") || first == "help" ||
		first == cobra.ShellCompRequestCmd || first == cobra.ShellCompNoDescRequestCmd {
		return args
	}

	for _, c := range root.Commands() {
		if c.Name() == first || slices.Contains(c.Aliases, first) {
			return args
		}
	}

	return append([]string{"run"}, args...)
}

// setup loads the configuration for cmd and builds the logger it names.
// The returned close function releases the log file.
func setup(cmd *cobra.Command) (*config.Config, logger.Logger, func(), error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to create config loader")
	}

	if configPath != "" {
		loader.SetProjectConfigPath(configPath)
	}

	cfg, err := loader.Load(changedFlags(cmd.Flags()))
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to load configuration")
	}

	if err := expandPaths(cfg); err != nil {
		return nil, nil, nil, err
	}

	crashConfig = cfg

	level := logger.LevelFromFlags(debugMode, traceMode)

	if cfg.Log.File == "" {
		return cfg, logger.NewWriterLogger(cmd.ErrOrStderr(), level), func() {}, nil
	}

	log, err := logger.NewFileLogger(cfg.Log.File, level)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to create logger")
	}

	return cfg, log, func() { _ = log.Close() }, nil
}

// expandPaths resolves ~ in the configured file system paths.
func expandPaths(cfg *config.Config) error {
	for _, p := range []*string{&cfg.Runtime.CacheDir, &cfg.Log.File, &cfg.Report.Path} {
		expanded, err := xdg.ExpandPath(*p)
		if err != nil {
			return err
		}

		*p = expanded
	}

	return nil
}

// changedFlags collects the flags set on the command line for the config loader.
// Values stay strings; the decoder converts them to the field types.
func changedFlags(fs *pflag.FlagSet) map[string]any {
	flags := make(map[string]any)

	fs.Visit(func(f *pflag.Flag) {
		flags[f.Name] = f.Value.String()
	})

	return flags
}
