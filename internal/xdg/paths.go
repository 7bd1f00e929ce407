// Package xdg resolves the per-user directories hostcall-timing touches on disk,
// following the XDG Base Directory conventions. Project-local config files stay
// in internal/config.
package xdg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const appName = "hostcall-timing"

// ErrUnsupportedTilde is returned for ~user style paths.
var ErrUnsupportedTilde = errors.New("paths starting with ~ must be either ~ or ~/subdir")

func userHome() (string, error) {
	return os.UserHomeDir()
}

func baseDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}

	home, err := userHome()
	if err != nil {
		home = "~"
	}

	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome() string {
	return baseDir("XDG_CONFIG_HOME", ".config")
}

// CacheHome returns $XDG_CACHE_HOME or ~/.cache.
func CacheHome() string {
	return baseDir("XDG_CACHE_HOME", ".cache")
}

// StateHome returns $XDG_STATE_HOME or ~/.local/state.
func StateHome() string {
	return baseDir("XDG_STATE_HOME", ".local", "state")
}

// CacheDir is the default compilation cache directory.
func CacheDir() string {
	return filepath.Join(CacheHome(), appName)
}

// CrashDumpDir is where crash dumps are written.
func CrashDumpDir() string {
	return filepath.Join(StateHome(), appName, "crashes")
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := userHome()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Wrapf(ErrUnsupportedTilde, "got %q", path)
	}
}
