package mocks

import "savekeeper/internal/core/ports"

// MockDiskInfoProvider is a mock implementation of DiskInfoProvider for testing
type MockDiskInfoProvider struct {
	FreeDiskMB int
	Err        error
	Paths      []string
}

// Compile-time check to ensure MockDiskInfoProvider implements ports.DiskInfoProvider
var _ ports.DiskInfoProvider = (*MockDiskInfoProvider)(nil)

// GetFreeDiskMB returns the configured free space
func (m *MockDiskInfoProvider) GetFreeDiskMB(path string) (int, error) {
	m.Paths = append(m.Paths, path)
	return m.FreeDiskMB, m.Err
}
