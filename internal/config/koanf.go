package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/maps"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/xdg"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/config"
)

// ErrInvalidPermissions is returned when a config file is world-writable.
var ErrInvalidPermissions = errors.New("config file has insecure permissions")

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "HOSTCALL_TIMING_"

	// GlobalConfigDir is the directory of the global config, below the user config dir.
	GlobalConfigDir = "hostcall-timing"

	// GlobalConfigFile is the name of the global configuration file.
	GlobalConfigFile = "config.toml"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = ".hostcall-timing.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "hostcall-timing.toml"
)

// flagPaths maps CLI flag names to config keys.
var flagPaths = map[string]string{
	"report":            "report.path",
	"format":            "report.format",
	"summary":           "report.summary",
	"clock-mode":        "clock.mode",
	"ghz":               "clock.ghz",
	"pin-cpu":           "clock.pin_cpu",
	"discard-anomalies": "samples.discard_anomalies",
	"engine":            "runtime.engine",
	"cache-dir":         "runtime.cache_dir",
	"log-file":          "log.file",
}

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (HOSTCALL_TIMING_*, "__" separates sections)
// 3. Project Config (.hostcall-timing.toml or hostcall-timing.toml)
// 4. Global Config ($XDG_CONFIG_HOME/hostcall-timing/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k           *koanf.Koanf
	configDir   string
	workDir     string
	projectPath string
}

// NewKoanfLoader creates a new KoanfLoader with default directories.
func NewKoanfLoader() (*KoanfLoader, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewKoanfLoaderWithDirs(xdg.ConfigHome(), workDir), nil
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom directories (for testing).
func NewKoanfLoaderWithDirs(configDir, workDir string) *KoanfLoader {
	return &KoanfLoader{
		k:         koanf.New("."),
		configDir: configDir,
		workDir:   workDir,
	}
}

// SetProjectConfigPath replaces the project config lookup with an explicit file,
// which must exist.
func (l *KoanfLoader) SetProjectConfigPath(path string) {
	l.projectPath = path
}

// Load loads and validates configuration from all sources.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
// Defaults → Global TOML → Project TOML → Env Vars → CLI Flags
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.GlobalConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if projectPath := l.FindProjectConfigPath(); projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flagConfig := flagsToConfig(flags); len(flagConfig) > 0 {
		if err := l.k.Load(confmap.Provider(flagConfig, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config
	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: CustomDecoderConfig(&cfg),
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps HOSTCALL_TIMING_CLOCK__PIN_CPU to clock.pin_cpu.
func envTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "__", ".")

	return key, value
}

// flagsToConfig converts CLI flags that were explicitly set to a nested config map.
func flagsToConfig(flags map[string]any) map[string]any {
	flat := make(map[string]any, len(flags))

	for name, value := range flags {
		if path, ok := flagPaths[name]; ok {
			flat[path] = value
		}
	}

	return maps.Unflatten(flat, ".")
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return filepath.Join(l.configDir, GlobalConfigDir, GlobalConfigFile)
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	return []string{
		filepath.Join(l.workDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}
}

// FindProjectConfigPath returns the explicit project config path if set, otherwise the
// first existing project config file, or "".
func (l *KoanfLoader) FindProjectConfigPath() string {
	if l.projectPath != "" {
		return l.projectPath
	}

	for _, path := range l.ProjectConfigPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	return ""
}
