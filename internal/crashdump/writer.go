package crashdump

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	// FilePerm is the file permission for crash dump files.
	FilePerm fs.FileMode = 0o600

	// DirPerm is the directory permission for crash dump directories.
	DirPerm fs.FileMode = 0o700

	// FileExtension is the extension for crash dump files.
	FileExtension = ".json"

	tempSuffix = ".tmp"
)

var (
	// ErrWriteFailed is returned when writing a crash dump fails.
	ErrWriteFailed = errors.New("failed to write crash dump")

	// ErrInvalidDumpDir is returned when the dump directory is invalid.
	ErrInvalidDumpDir = errors.New("invalid dump directory")
)

// Writer writes crash dumps into one directory.
type Writer struct {
	dumpDir string
}

// NewWriter creates a writer for dumpDir.
func NewWriter(dumpDir string) (*Writer, error) {
	if dumpDir == "" {
		return nil, errors.Wrap(ErrInvalidDumpDir, "dump directory cannot be empty")
	}

	return &Writer{dumpDir: dumpDir}, nil
}

// Write stores info as indented JSON and returns the file path. The file appears
// atomically under its final name.
func (w *Writer) Write(info *CrashInfo) (string, error) {
	if info == nil {
		return "", errors.Wrap(ErrWriteFailed, "crash info is nil")
	}

	if err := os.MkdirAll(w.dumpDir, DirPerm); err != nil {
		return "", errors.WithSecondaryError(ErrInvalidDumpDir, err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", errors.WithSecondaryError(ErrWriteFailed, err)
	}

	filePath := filepath.Join(w.dumpDir, info.ID+FileExtension)
	tempPath := filePath + tempSuffix

	if err := os.WriteFile(tempPath, data, FilePerm); err != nil {
		return "", errors.WithSecondaryError(ErrWriteFailed, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)

		return "", errors.WithSecondaryError(ErrWriteFailed, err)
	}

	return filePath, nil
}

// Dir returns the dump directory.
func (w *Writer) Dir() string {
	return w.dumpDir
}
