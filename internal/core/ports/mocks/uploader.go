package mocks

import (
	"context"
	"fmt"

	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// MockCloudUploader is a mock implementation of CloudUploader
type MockCloudUploader struct {
	mock.Mock
}

// Compile-time check to ensure MockCloudUploader implements ports.CloudUploader
var _ ports.CloudUploader = (*MockCloudUploader)(nil)

// NewMockCloudUploader creates a new MockCloudUploader instance
func NewMockCloudUploader() *MockCloudUploader {
	return &MockCloudUploader{}
}

// Upload mocks the Upload method
func (m *MockCloudUploader) Upload(ctx context.Context, localPath string) (*domain.RemoteFile, error) {
	if m == nil {
		return nil, fmt.Errorf("nil MockCloudUploader receiver")
	}
	args := m.Called(ctx, localPath)
	remote, _ := args.Get(0).(*domain.RemoteFile)
	return remote, args.Error(1)
}

// SetUploadResult configures the result returned for any local path
func (m *MockCloudUploader) SetUploadResult(remote *domain.RemoteFile, err error) {
	if m == nil {
		return
	}
	m.On("Upload", mock.Anything, mock.Anything).Return(remote, err)
}
