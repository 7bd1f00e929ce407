// Command schema-gen writes the configuration JSON Schema next to the sources,
// where the Taplo directive in written config files expects it.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/schema"
)

const filePerms = 0o644

func main() {
	outDir := "."
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	path, err := write(outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(path)
}

func write(outDir string) (string, error) {
	data, err := schema.GenerateJSON(true)
	if err != nil {
		return "", err
	}

	outPath := filepath.Clean(filepath.Join(outDir, schema.FileName))

	//nolint:gosec // dev tool, outDir from CLI arg
	if err := os.WriteFile(outPath, data, filePerms); err != nil {
		return "", err
	}

	return outPath, nil
}
