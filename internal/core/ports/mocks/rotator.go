package mocks

import (
	"context"
	"errors"

	"savekeeper/internal/core/ports"
)

// MockRotatorService is a mock implementation of RotatorService for testing
type MockRotatorService struct {
	ArchiveExistingFunc func(ctx context.Context) (string, error)
	DeleteArchivedFunc  func(ctx context.Context, path string) error

	ArchiveCount int
	DeletedPaths []string
}

// Compile-time check to ensure MockRotatorService implements ports.RotatorService
var _ ports.RotatorService = (*MockRotatorService)(nil)

// NewMockRotatorService creates a new mock rotator service
func NewMockRotatorService() *MockRotatorService {
	return &MockRotatorService{}
}

// ArchiveExisting returns the configured archived path, "" by default
func (m *MockRotatorService) ArchiveExisting(ctx context.Context) (string, error) {
	if m == nil {
		return "", errors.New("mock rotator service cannot be nil")
	}
	m.ArchiveCount++
	if m.ArchiveExistingFunc != nil {
		return m.ArchiveExistingFunc(ctx)
	}
	return "", nil
}

// DeleteArchived records the deleted path
func (m *MockRotatorService) DeleteArchived(ctx context.Context, path string) error {
	if m == nil {
		return errors.New("mock rotator service cannot be nil")
	}
	m.DeletedPaths = append(m.DeletedPaths, path)
	if m.DeleteArchivedFunc != nil {
		return m.DeleteArchivedFunc(ctx, path)
	}
	return nil
}
