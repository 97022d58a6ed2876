// Package writer stores generated documents on disk.
//
// Writes are atomic: content goes to a temporary file in the destination
// directory, is synced, and is renamed over the target. A failed write leaves
// any previous artifact in place.
package writer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Writer errors
var (
	ErrPathInvalid = errors.New("output name escapes the output directory")
	ErrNotWritable = errors.New("output location is not writable")
)

const (
	defaultPermFile os.FileMode = 0o644
	defaultPermDir  os.FileMode = 0o755
	bufSize                     = 64 * 1024
)

// Writer stores named documents under a root directory
type Writer struct {
	root string
}

// New creates a Writer rooted at dir
func New(dir string) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: empty output directory", ErrPathInvalid)
	}
	return &Writer{root: dir}, nil
}

// Root returns the output directory
func (w *Writer) Root() string {
	return w.root
}

// Probe creates the output directory if needed and checks it accepts files
func (w *Writer) Probe() error {
	return ProbeDir(w.root)
}

// Path maps a document filename to its destination. Names are flattened to
// their base element; ".", ".." and empty names are rejected.
func (w *Writer) Path(name string) (string, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == string(filepath.Separator) || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: %q", ErrPathInvalid, name)
	}
	return filepath.Join(w.root, base), nil
}

// Write atomically stores content under name and returns the destination
func (w *Writer) Write(ctx context.Context, name, content string) (string, error) {
	dest, err := w.Path(name)
	if err != nil {
		return "", err
	}
	if err := WriteFile(ctx, dest, content); err != nil {
		return "", err
	}
	return dest, nil
}

// ProbeDir creates dir if needed and verifies a file can be created in it
func ProbeDir(dir string) error {
	if err := os.MkdirAll(dir, defaultPermDir); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}

	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return nil
}

// WriteFile atomically replaces dest with content
func WriteFile(ctx context.Context, dest, content string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, defaultPermDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, defaultPermFile)

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	bw := bufio.NewWriterSize(tmp, bufSize)
	if _, err := io.Copy(bw, strings.NewReader(content)); err != nil {
		cleanup()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := bw.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("failed to flush %s: %w", dest, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", dest, err)
	}

	return nil
}
