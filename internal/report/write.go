package report

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/PLSysSec/hostcall-instrumented-wasmtime/internal/stats"
)

// ErrUnknownFormat is returned for a Format outside the enum.
var ErrUnknownFormat = errors.New("unknown report format")

// Write encodes sum to w.
func Write(w io.Writer, sum stats.Summary, format Format) error {
	switch format {
	case FormatText:
		return writeText(w, sum)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return errors.Wrap(enc.Encode(sum), "encoding json report")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(sum); err != nil {
			return errors.Wrap(err, "encoding yaml report")
		}

		return errors.Wrap(enc.Close(), "flushing yaml report")
	default:
		return errors.Wrapf(ErrUnknownFormat, "format %d", int(format))
	}
}

func writeText(w io.Writer, sum stats.Summary) error {
	bw := bufio.NewWriter(w)

	for _, row := range sum.Rows {
		_, _ = bw.WriteString(FormatLine(row))
		_ = bw.WriteByte('\n')
	}

	return errors.Wrap(bw.Flush(), "writing text report")
}

// FormatLine renders one row of the text format without the trailing newline.
func FormatLine(row stats.Row) string {
	return strconv.Quote(row.Name) + "," +
		strconv.Itoa(row.Count) + "," +
		FormatFloat(row.Mean) + "," +
		FormatFloat(row.Geomean)
}

// Writer writes reports through a FileCreator.
type Writer struct {
	fs FileCreator
}

// NewWriter returns a Writer creating files with fs.
func NewWriter(fs FileCreator) *Writer {
	return &Writer{fs: fs}
}

// WriteFile creates or truncates path and writes sum to it.
func (w *Writer) WriteFile(path string, sum stats.Summary, format Format) (err error) {
	f, err := w.fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "opening report %s", path)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing report %s", path)
		}
	}()

	if err := Write(f, sum, format); err != nil {
		return errors.Wrapf(err, "writing report %s", path)
	}

	return nil
}

// WriteFile writes sum to path on the local file system.
func WriteFile(path string, sum stats.Summary, format Format) error {
	return NewWriter(NewOSFileCreator()).WriteFile(path, sum, format)
}
