package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/schema"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/config"
)

const (
	// ConfigFileMode is the file mode for configuration files (user read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for configuration directories (user rwx only).
	ConfigDirMode = 0o700
)

// ErrConfigExists is returned when writing would overwrite an existing file.
var ErrConfigExists = errors.New("config file already exists")

// Writer handles writing configuration to TOML files.
type Writer struct {
	configDir string
	workDir   string
}

// NewWriterWithDirs creates a new Writer with custom directories.
func NewWriterWithDirs(configDir, workDir string) *Writer {
	return &Writer{
		configDir: configDir,
		workDir:   workDir,
	}
}

// GlobalConfigPath returns the path to the global configuration file.
func (w *Writer) GlobalConfigPath() string {
	return filepath.Join(w.configDir, GlobalConfigDir, GlobalConfigFile)
}

// ProjectConfigPath returns the path to the primary project configuration file.
func (w *Writer) ProjectConfigPath() string {
	return filepath.Join(w.workDir, ProjectConfigFile)
}

// WriteFile writes cfg to path. An existing file is only replaced when force is set.
func (*Writer) WriteFile(path string, cfg *config.Config, force bool) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrapf(ErrConfigExists, "%s", path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}

// Marshal encodes cfg as indented TOML preceded by the schema directive.
func Marshal(cfg *config.Config) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(schema.Directive())
	buf.WriteByte('\n')

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to encode config to TOML")
	}

	return buf.Bytes(), nil
}
