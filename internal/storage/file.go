// ABOUTME: JSON file storage implementation for point collections
// ABOUTME: Also provides the atomic write helper used by config and exports

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/pointedit/internal/models"
)

// FileStore implements Store with a single JSON file.
type FileStore struct {
	path string
}

// Compile-time check that FileStore implements Store.
var _ Store = (*FileStore)(nil)

// NewFileStore returns a store backed by the file at path.
// The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the collection.
func (s *FileStore) Load(ctx context.Context) (models.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}
	return Decode(data)
}

// Save replaces the stored collection.
func (s *FileStore) Save(ctx context.Context, points models.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(points)
	if err != nil {
		return err
	}
	return AtomicWrite(s.path, data)
}

// Close is a no-op; the file is not held open.
func (s *FileStore) Close() error {
	return nil
}

// AtomicWrite writes data to a temp file in the target directory and renames it into place.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
