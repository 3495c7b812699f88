package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kjk/common/atomicfile"
	"github.com/vbonduro/pantryinv/internal/filestore"
)

type LocalFileStore struct {
	basePath string
}

func NewLocalFileStore(basePath string) (*LocalFileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &LocalFileStore{basePath: basePath}, nil
}

// Create writes through an atomicfile.File: data goes to a temp file next to
// the destination and is renamed over it on Close.
func (s *LocalFileStore) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	dstPath, err := s.safeJoin(name)
	if err != nil {
		return nil, err
	}

	f, err := atomicfile.New(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return f, nil
}

func (s *LocalFileStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	filePath, err := s.safeJoin(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, filestore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalFileStore) Delete(ctx context.Context, name string) error {
	filePath, err := s.safeJoin(name)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return filestore.ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// List returns export names, sorted. atomicfile temp files are named
// "<name>.txt<random>", so they fail ValidName and are skipped.
func (s *LocalFileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read export directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !filestore.ValidName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// safeJoin resolves name relative to basePath and rejects directory traversal.
func (s *LocalFileStore) safeJoin(name string) (string, error) {
	if !filestore.ValidName(name) {
		return "", fmt.Errorf("%w: %q", filestore.ErrInvalidName, name)
	}

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, name))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}
