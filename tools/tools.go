//go:build tools

// Package tools pins the code generators behind the go:generate directives:
// enumer for CalibrationMode, Format, Category and Level, and mockgen for the
// report file system.
package tools

import (
	_ "github.com/dmarkham/enumer"
	_ "go.uber.org/mock/mockgen"
)
