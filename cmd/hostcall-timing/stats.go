package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/color"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats [report-file]",
	Short: "Render a text report as a table",
	Long: `Render a text report as a table. Without an argument the configured report
path is read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, _, closeLog, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	path := cfg.Report.Path
	if len(args) == 1 {
		path = args[0]
	}

	//nolint:gosec // path is chosen by the operator
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening report %s", path)
	}
	defer f.Close()

	sum, err := report.Parse(f)
	if err != nil {
		return errors.Wrapf(err, "reading report %s", path)
	}

	theme := color.NewTheme(color.Profile(noColorFlag, os.Stdout))

	table := report.RenderTable(sum, theme)
	if table == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "no hostcalls recorded")

		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), table)

	return nil
}
