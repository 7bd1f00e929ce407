package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/wasm"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/xdg"
)

var compileCmd = &cobra.Command{
	Use:   "compile <glob>...",
	Short: "Precompile modules into the compilation cache",
	Long: `Precompile WebAssembly modules into the compilation cache so later runs skip
compilation. Patterns support ** globs. Without --cache-dir the cache lives in
$XDG_CACHE_HOME/hostcall-timing; pass the same directory to run.`,
	Example: `  hostcall-timing compile --cache-dir ~/.cache/hostcall-timing 'bench/**/*.wasm'`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().String("engine", "", "Execution engine (auto, compiler, interpreter)")
	compileCmd.Flags().String("cache-dir", "", "Compilation cache directory")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, log, closeLog, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := wasm.ParseEngine(cfg.Runtime.Engine)
	if err != nil {
		return err
	}

	cacheDir := cfg.Runtime.CacheDir
	if cacheDir == "" {
		cacheDir = xdg.CacheDir()
	}

	runner := wasm.NewRunner(log, wasm.WithEngine(engine), wasm.WithCacheDir(cacheDir))

	n, err := runner.Compile(cmd.Context(), args)
	if err != nil {
		return errors.Wrap(err, "compile failed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "compiled %d module(s) into %s\n", n, cacheDir)

	return nil
}
