package filestore

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Ext is the extension every export carries.
const Ext = ".txt"

var (
	// ErrNotFound is returned when a named export does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidName is returned for names that are not a bare "<name>.txt".
	ErrInvalidName = errors.New("invalid file name")
)

// ValidName reports whether name is a bare export name: no directories, no
// leading dot, and the export extension.
func ValidName(name string) bool {
	return len(name) > len(Ext) &&
		strings.HasSuffix(name, Ext) &&
		!strings.ContainsAny(name, `/\`) &&
		!strings.HasPrefix(name, ".")
}

// FileStore holds exported pantry lists by name.
type FileStore interface {
	// Create returns a writer for name. The file only becomes visible under
	// name once the writer is closed without error.
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// Discard abandons an unfinished write. Writers that can cancel, such as
// atomicfile.File, drop the pending data; any other writer is just closed.
func Discard(w io.WriteCloser) {
	if c, ok := w.(interface{ RemoveIfNotClosed() }); ok {
		c.RemoveIfNotClosed()
		return
	}
	_ = w.Close()
}
