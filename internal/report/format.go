// Package report serializes hostcall latency summaries.
package report

import (
	"math"
	"strconv"
	"strings"
)

//go:generate enumer -type=Format -trimprefix=Format -transform=lower -json -text -yaml

// Format selects the report encoding.
type Format int

const (
	// FormatText writes one `"name",count,mean,geomean` line per hostcall.
	FormatText Format = iota

	// FormatJSON writes the summary as a JSON document.
	FormatJSON

	// FormatYAML writes the summary as a YAML document.
	FormatYAML
)

// DefaultPath is where the report lands when no path is configured. It is
// resolved against the working directory.
const DefaultPath = "./wasmtime_results.txt"

// FormatFloat renders x in shortest round-trip form. Finite values always carry a
// decimal point or an exponent; very small and very large magnitudes use an
// unpadded exponent ("1e16", "1.5e-7").
func FormatFloat(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}

	if abs := math.Abs(x); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(x, 'e', -1, 64), "e")
		n, _ := strconv.Atoi(exp)

		return mant + "e" + strconv.Itoa(n)
	}

	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
