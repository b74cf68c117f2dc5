package mocks

import (
	"context"
	"fmt"

	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// MockArchiveService is a mock implementation of ArchiveService
type MockArchiveService struct {
	mock.Mock
}

// Compile-time check to ensure MockArchiveService implements ports.ArchiveService
var _ ports.ArchiveService = (*MockArchiveService)(nil)

// NewMockArchiveService creates a new MockArchiveService instance
func NewMockArchiveService() *MockArchiveService {
	return &MockArchiveService{}
}

// FindNewestStateDirectories mocks the FindNewestStateDirectories method
func (m *MockArchiveService) FindNewestStateDirectories(ctx context.Context, saveRoot string, limit int) ([]domain.StateDirectory, error) {
	if m == nil {
		return nil, fmt.Errorf("nil MockArchiveService receiver")
	}
	args := m.Called(ctx, saveRoot, limit)
	dirs, _ := args.Get(0).([]domain.StateDirectory)
	return dirs, args.Error(1)
}

// CreateBackupZip mocks the CreateBackupZip method
func (m *MockArchiveService) CreateBackupZip(ctx context.Context, dirs []domain.StateDirectory, suffix string) (string, error) {
	if m == nil {
		return "", fmt.Errorf("nil MockArchiveService receiver")
	}
	args := m.Called(ctx, dirs, suffix)
	return args.String(0), args.Error(1)
}

// SetFindResult configures the directories returned for any save root
func (m *MockArchiveService) SetFindResult(dirs []domain.StateDirectory, err error) {
	if m == nil {
		return
	}
	m.On("FindNewestStateDirectories", mock.Anything, mock.Anything, mock.Anything).Return(dirs, err)
}

// SetCreateResult configures the archive path returned for any selection
func (m *MockArchiveService) SetCreateResult(path string, err error) {
	if m == nil {
		return
	}
	m.On("CreateBackupZip", mock.Anything, mock.Anything, mock.Anything).Return(path, err)
}
