package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/stats"
	"github.com/PLSysSec/hostcall-instrumented-wasmtime/pkg/hostcall"
)

// ErrMalformedReport is returned for a text report line that does not parse.
var ErrMalformedReport = errors.New("malformed report line")

const textFields = 3

// Parse reads a text report. Blank lines are skipped. Names outside the registry
// are kept with an invalid category.
func Parse(r io.Reader) (stats.Summary, error) {
	var sum stats.Summary

	sc := bufio.NewScanner(r)
	lineNo := 0

	for sc.Scan() {
		lineNo++

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		row, err := parseLine(line)
		if err != nil {
			return stats.Summary{}, errors.Wrapf(err, "line %d", lineNo)
		}

		sum.Rows = append(sum.Rows, row)
	}

	if err := sc.Err(); err != nil {
		return stats.Summary{}, errors.Wrap(err, "reading report")
	}

	return sum, nil
}

func parseLine(line string) (stats.Row, error) {
	quoted, err := strconv.QuotedPrefix(line)
	if err != nil {
		return stats.Row{}, errors.Wrapf(ErrMalformedReport, "no quoted name in %q", line)
	}

	name, err := strconv.Unquote(quoted)
	if err != nil {
		return stats.Row{}, errors.Wrapf(ErrMalformedReport, "name %s", quoted)
	}

	rest, ok := strings.CutPrefix(line[len(quoted):], ",")
	if !ok {
		return stats.Row{}, errors.Wrapf(ErrMalformedReport, "no separator after %s", quoted)
	}

	fields := strings.Split(rest, ",")
	if len(fields) != textFields {
		return stats.Row{}, errors.Wrapf(ErrMalformedReport,
			"want %d values after name, got %d", textFields, len(fields))
	}

	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return stats.Row{}, errors.Wrapf(ErrMalformedReport, "count %q", fields[0])
	}

	mean, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return stats.Row{}, errors.Wrapf(ErrMalformedReport, "mean %q", fields[1])
	}

	geomean, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return stats.Row{}, errors.Wrapf(ErrMalformedReport, "geomean %q", fields[2])
	}

	category := hostcall.Category(-1)
	if op, err := hostcall.Lookup(name); err == nil {
		category = op.Category()
	}

	return stats.Row{
		Name:     name,
		Category: category,
		Count:    count,
		Mean:     mean,
		Geomean:  geomean,
	}, nil
}
