package adapters

import (
	"fmt"

	"savekeeper/internal/core/ports"

	"golang.org/x/sys/windows"
)

// DiskInfo reports free space of the volume holding a path
type DiskInfo struct{}

// Compile-time check to ensure DiskInfo implements ports.DiskInfoProvider
var _ ports.DiskInfoProvider = (*DiskInfo)(nil)

// NewDiskInfo creates a new DiskInfo instance
func NewDiskInfo() *DiskInfo {
	return &DiskInfo{}
}

// GetFreeDiskMB returns the available free disk space in megabytes for the given path
func (d *DiskInfo) GetFreeDiskMB(path string) (int, error) {
	var freeBytesAvailable, totalBytes, totalFreeBytes uint64

	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}

	if err := windows.GetDiskFreeSpaceEx(pathPtr, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return 0, fmt.Errorf("GetDiskFreeSpaceEx %s: %w", path, err)
	}

	// Convert bytes to megabytes
	return int(freeBytesAvailable / (1024 * 1024)), nil
}
