package mocks

import (
	"context"
	"fmt"

	"savekeeper/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// MockVerifierService is a mock implementation of VerifierService
type MockVerifierService struct {
	mock.Mock
}

// Compile-time check to ensure MockVerifierService implements ports.VerifierService
var _ ports.VerifierService = (*MockVerifierService)(nil)

// NewMockVerifierService creates a new MockVerifierService instance
func NewMockVerifierService() *MockVerifierService {
	return &MockVerifierService{}
}

// CheckIntegrity mocks the CheckIntegrity method
func (m *MockVerifierService) CheckIntegrity(ctx context.Context, path string) (bool, error) {
	if m == nil {
		return false, fmt.Errorf("nil MockVerifierService receiver")
	}
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

// SetResult configures the verdict returned for any archive
func (m *MockVerifierService) SetResult(ok bool, err error) {
	if m == nil {
		return
	}
	m.On("CheckIntegrity", mock.Anything, mock.Anything).Return(ok, err)
}
