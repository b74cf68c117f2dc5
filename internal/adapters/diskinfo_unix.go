//go:build unix

package adapters

import (
	"fmt"

	"savekeeper/internal/core/ports"

	"golang.org/x/sys/unix"
)

// DiskInfo reports free space of the filesystem holding a path
type DiskInfo struct{}

// Compile-time check to ensure DiskInfo implements ports.DiskInfoProvider
var _ ports.DiskInfoProvider = (*DiskInfo)(nil)

// NewDiskInfo creates a new DiskInfo instance
func NewDiskInfo() *DiskInfo {
	return &DiskInfo{}
}

// GetFreeDiskMB returns the space available to unprivileged users in megabytes
func (d *DiskInfo) GetFreeDiskMB(path string) (int, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}

	// Convert bytes to megabytes
	return int(uint64(stat.Bavail) * uint64(stat.Bsize) / (1024 * 1024)), nil
}
