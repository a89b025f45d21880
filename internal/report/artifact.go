package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteArtifact writes data to dir/name, creating dir if needed.
// Directories are created with 0750 and files with 0600.
func WriteArtifact(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: create directory %s: %w", ErrReportWrite, dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", ErrReportWrite, path, err)
	}
	return path, nil
}

// Output is one file rendered from a Document.
type Output struct {
	// Name is the file name inside the target directory.
	Name string
	// New creates the writer rendering into the opened file.
	New func(w io.Writer) Writer
}

// WriteDocuments renders doc into every output below dir in one pass and
// returns the written paths in output order. Nothing is returned on error;
// files already opened are closed.
func WriteDocuments(dir string, doc *Document, outputs ...Output) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create directory %s: %w", ErrReportWrite, dir, err)
	}

	paths := make([]string, 0, len(outputs))
	files := make([]*os.File, 0, len(outputs))
	writers := make([]Writer, 0, len(outputs))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close() //nolint:errcheck // the first error is more useful
		}
	}

	for _, o := range outputs {
		path := filepath.Join(dir, o.Name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // path is built from configured directories
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("%w: open %s: %w", ErrReportWrite, path, err)
		}
		paths = append(paths, path)
		files = append(files, f)
		writers = append(writers, o.New(f))
	}

	if _, err := NewMultiWriter(writers...).Write(doc); err != nil {
		closeAll()
		return nil, fmt.Errorf("%w: render %s: %w", ErrReportWrite, dir, err)
	}
	for i, f := range files {
		if err := f.Close(); err != nil {
			closeAll()
			return nil, fmt.Errorf("%w: close %s: %w", ErrReportWrite, paths[i], err)
		}
	}
	return paths, nil
}
