package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/config"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/schema"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/xdg"
)

var (
	initGlobal bool
	initForce  bool
	schemaFlat bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hostcall-timing configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default configuration to .hostcall-timing.toml in the working
directory, or to the global config file with --global.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configSchemaCmd)

	configInitCmd.Flags().BoolVarP(&initGlobal, "global", "g", false, "Write the global config file")
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")
	configSchemaCmd.Flags().BoolVar(&schemaFlat, "compact", false, "Print compact JSON")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to get working directory")
	}

	writer := internalconfig.NewWriterWithDirs(xdg.ConfigHome(), workDir)

	path := writer.ProjectConfigPath()
	if initGlobal {
		path = writer.GlobalConfigPath()
	}

	if err := writer.WriteFile(path, internalconfig.DefaultConfig(), initForce); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)

	return nil
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := schema.GenerateJSON(!schemaFlat)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return errors.Wrap(err, "writing schema")
}
