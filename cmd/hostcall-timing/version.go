package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/cycleclock"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

const (
	shortCommitLength = 12
	wazeroModule      = "github.com/tetratelabs/wazero"
)

// Build information set by ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version, build and runtime information for hostcall-timing.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printVersion(cmd.OutOrStdout())
	},
}

// versionRequested is set by the --version/-v flag.
var versionRequested bool

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Flags().BoolVarP(
		&versionRequested,
		"version",
		"v",
		false,
		"Print version information",
	)
}

func printVersion(w io.Writer) {
	fmt.Fprint(w, versionString())
}

func versionString() string {
	var b strings.Builder

	fmt.Fprintf(&b, "hostcall-timing %s\n", version)
	fmt.Fprintf(&b, "  commit:    %s\n", commit)
	fmt.Fprintf(&b, "  built:     %s\n", date)
	fmt.Fprintf(&b, "  go:        %s\n", runtime.Version())
	fmt.Fprintf(&b, "  os/arch:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "  counter:   %s\n", cycleclock.Counter())
	fmt.Fprintf(&b, "  hostcalls: %d\n", hostcall.NumOps)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b.String()
	}

	for _, dep := range info.Deps {
		if dep.Path == wazeroModule {
			fmt.Fprintf(&b, "  wazero:    %s\n", dep.Version)
		}
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" && commit == "unknown" {
			fmt.Fprintf(&b, "  vcs.rev:   %s\n", setting.Value[:min(shortCommitLength, len(setting.Value))])
		}

		if setting.Key == "vcs.modified" && setting.Value == "true" {
			b.WriteString("  modified:  true\n")
		}
	}

	return b.String()
}
