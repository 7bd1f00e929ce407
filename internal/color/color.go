// Package color provides color detection and theming for CLI tables.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Profile reports whether color output should be enabled.
//
// Color is disabled when any of:
//   - NO_COLOR env is set (any value, per https://no-color.org)
//   - CLICOLOR=0
//   - TERM=dumb
//   - noColorFlag is true (--no-color CLI flag)
//   - out is not a terminal
func Profile(noColorFlag bool, out *os.File) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" || os.Getenv("TERM") == "dumb" {
		return false
	}

	return out == nil || IsTerminal(out)
}

// IsTerminal returns true if the given file is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}

// Theme holds lipgloss styles for latency tables.
type Theme struct {
	Header   lipgloss.Style
	Name     lipgloss.Style
	Category lipgloss.Style
	Value    lipgloss.Style
	Warning  lipgloss.Style
	Muted    lipgloss.Style
}

// NewTheme creates a Theme. When color is false, all styles are empty (no ANSI codes).
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Name:     lipgloss.NewStyle().Bold(true),
		Category: lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // bright blue
		Value:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // bright green
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // bright yellow
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),  // gray
	}
}
