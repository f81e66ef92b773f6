// Package sink persists generated sources. The generator core never performs I/O; it hands the
// rendered text to a Sink.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// ErrWriteFailed is wrapped by every error returned from a sink write.
var ErrWriteFailed = errors.New("write failed")

// Status tells what a write did.
type Status int

const (
	Written Status = iota
	Unchanged
)

func (s Status) String() string {
	if s == Unchanged {
		return "unchanged"
	}
	return "written"
}

// Sink creates and writes one generated source unit. Implementations must be safe for
// concurrent use.
type Sink interface {
	Write(name string, content []byte) (Status, error)
}

// FileSink writes sources below a root directory of an afero file system. Content is written to
// a temporary file in the target directory and renamed into place, so a failed write never
// leaves a truncated source behind.
type FileSink struct {
	fs   afero.Fs
	root string

	// Same, when set, reports whether existing content is equivalent to new content. Equivalent
	// files are left untouched.
	Same func(existing, generated []byte) bool
}

// FileMode is the permission of written sources.
const FileMode os.FileMode = 0o644

// NewFileSink creates a FileSink rooted at root.
func NewFileSink(fsys afero.Fs, root string) *FileSink {
	return &FileSink{fs: fsys, root: root}
}

// Path returns the file system path a source name is written to.
func (s *FileSink) Path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Write implements Sink.
func (s *FileSink) Write(name string, content []byte) (Status, error) {
	path := s.Path(name)
	dir := filepath.Dir(path)

	if s.Same != nil {
		existing, err := afero.ReadFile(s.fs, path)
		if err == nil && s.Same(existing, content) {
			return Unchanged, nil
		}
	}

	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return Written, fmt.Errorf("%w: create directory %s: %w", ErrWriteFailed, dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".qmeta-*.tmp")
	if err != nil {
		return Written, fmt.Errorf("%w: create temporary file in %s: %w", ErrWriteFailed, dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return Written, fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return Written, fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := s.fs.Chmod(tmpName, FileMode); err != nil {
		_ = s.fs.Remove(tmpName)
		return Written, fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return Written, fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return Written, nil
}

// WriterSink streams every source to one io.Writer, each preceded by a header line naming it.
// It backs dry runs.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a WriterSink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Write implements Sink.
func (s *WriterSink) Write(name string, content []byte) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "// ===== %s =====\n%s\n", name, content); err != nil {
		return Written, fmt.Errorf("%w: %s: %w", ErrWriteFailed, name, err)
	}
	return Written, nil
}
