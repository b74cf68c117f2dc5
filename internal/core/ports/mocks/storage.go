package mocks

import (
	"context"
	"io"

	"savekeeper/internal/core/ports"
)

// MockStorageRepository is a mock implementation of StorageRepository for testing
type MockStorageRepository struct {
	ListFunc   func(ctx context.Context, prefix string) ([]string, error)
	CreateFunc func(ctx context.Context, key string) (io.WriteCloser, error)
	RenameFunc func(ctx context.Context, oldKey string, newKey string) error
	DeleteFunc func(ctx context.Context, key string) error
	PathFunc   func(key string) string

	Renamed [][2]string
	Deleted []string
}

// Compile-time check to ensure MockStorageRepository implements ports.StorageRepository
var _ ports.StorageRepository = (*MockStorageRepository)(nil)

// NewMockStorageRepository creates a new mock storage repository
func NewMockStorageRepository() *MockStorageRepository {
	return &MockStorageRepository{}
}

// List returns all keys under prefix
func (m *MockStorageRepository) List(ctx context.Context, prefix string) ([]string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, prefix)
	}
	return []string{}, nil
}

// Create opens key for writing
func (m *MockStorageRepository) Create(ctx context.Context, key string) (io.WriteCloser, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, key)
	}
	return nopWriteCloser{io.Discard}, nil
}

// Rename records and moves oldKey to newKey
func (m *MockStorageRepository) Rename(ctx context.Context, oldKey string, newKey string) error {
	m.Renamed = append(m.Renamed, [2]string{oldKey, newKey})
	if m.RenameFunc != nil {
		return m.RenameFunc(ctx, oldKey, newKey)
	}
	return nil
}

// Delete records and removes key
func (m *MockStorageRepository) Delete(ctx context.Context, key string) error {
	m.Deleted = append(m.Deleted, key)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

// Path returns the filesystem path for key
func (m *MockStorageRepository) Path(key string) string {
	if m.PathFunc != nil {
		return m.PathFunc(key)
	}
	return key
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
