package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/color"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

var opsNamesOnly bool

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the instrumented hostcalls",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if opsNamesOnly {
			for _, name := range hostcall.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return
		}

		theme := color.NewTheme(color.Profile(noColorFlag, os.Stdout))

		fmt.Fprintln(cmd.OutOrStdout(), report.RenderOps(theme))
	},
}

func init() {
	rootCmd.AddCommand(opsCmd)

	opsCmd.Flags().BoolVar(&opsNamesOnly, "names", false, "Print one hostcall name per line")
}
