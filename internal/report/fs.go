package report

//go:generate mockgen -source=fs.go -destination=fs_mock.go -package=report

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// FileCreator opens report files for writing.
type FileCreator interface {
	// Create creates or truncates the named file.
	Create(name string) (io.WriteCloser, error)
}

// osFileCreator implements FileCreator on the local file system.
type osFileCreator struct{}

// NewOSFileCreator returns a FileCreator backed by os.Create.
func NewOSFileCreator() *osFileCreator {
	return &osFileCreator{}
}

// Create creates or truncates the named file.
func (*osFileCreator) Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name) //nolint:gosec // report path is operator-provided
	if err != nil {
		return nil, errors.Wrap(err, "creating report file")
	}

	return f, nil
}
