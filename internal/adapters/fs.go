package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"savekeeper/internal/config"
	"savekeeper/internal/core/ports"
)

const (
	ErrOpenRootDir = "failed to open root directory %s: %w"
)

// ErrFSRepositoryNil is returned when methods are called on a nil repository
var ErrFSRepositoryNil = errors.New("filesystem repository cannot be nil")

// FSRepository implements StorageRepository using local filesystem
type FSRepository struct {
	root *os.Root
}

// NewFSRepository creates a new filesystem storage repository rooted at basePath
func NewFSRepository(basePath string) (*FSRepository, error) {
	root, err := os.OpenRoot(basePath)
	if err != nil {
		return nil, fmt.Errorf(ErrOpenRootDir, basePath, err)
	}

	return &FSRepository{
		root: root,
	}, nil
}

// Create opens key for writing, creating parent directories as needed
func (f *FSRepository) Create(ctx context.Context, key string) (io.WriteCloser, error) {
	if f == nil {
		return nil, ErrFSRepositoryNil
	}
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	dir := filepath.Dir(key)
	if dir != "." {
		if err := f.root.MkdirAll(dir, config.DirPermission); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := f.root.Create(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", key, err)
	}

	return file, nil
}

// Rename moves oldKey to newKey inside the root
func (f *FSRepository) Rename(ctx context.Context, oldKey string, newKey string) error {
	if f == nil {
		return ErrFSRepositoryNil
	}
	if oldKey == "" || newKey == "" {
		return errors.New("keys cannot be empty")
	}

	if err := f.root.Rename(oldKey, newKey); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("key not found: %s", oldKey)
		}
		return fmt.Errorf("failed to rename %s to %s: %w", oldKey, newKey, err)
	}

	return nil
}

// Delete removes data by key from filesystem
func (f *FSRepository) Delete(ctx context.Context, key string) error {
	if f == nil {
		return ErrFSRepositoryNil
	}
	if err := f.root.Remove(key); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("key not found: %s", key)
		}
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}

	return nil
}

// List returns all file keys directly under prefix
func (f *FSRepository) List(ctx context.Context, prefix string) ([]string, error) {
	if f == nil {
		return nil, ErrFSRepositoryNil
	}

	var keys []string

	if prefix == "" {
		prefix = "."
	}

	file, err := f.root.Open(prefix)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open directory %s: %w", prefix, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat directory %s: %w", prefix, err)
	}

	if !info.IsDir() {
		return []string{prefix}, nil
	}

	entries, err := file.ReadDir(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", prefix, err)
	}

	for _, entry := range entries {
		if entry.Type().IsRegular() {
			keys = append(keys, strings.ReplaceAll(filepath.Join(prefix, entry.Name()), "\\", "/"))
		}
	}

	return keys, nil
}

// Path returns the filesystem path for key
func (f *FSRepository) Path(key string) string {
	if f == nil {
		return key
	}
	return filepath.Join(f.root.Name(), filepath.FromSlash(key))
}

// Close closes the root filesystem
func (f *FSRepository) Close() error {
	if f == nil {
		return ErrFSRepositoryNil
	}
	return f.root.Close()
}

// Ensure FSRepository implements StorageRepository interface
var _ ports.StorageRepository = (*FSRepository)(nil)
