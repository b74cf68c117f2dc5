package services

import (
	"context"
	"errors"
	"fmt"

	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"

	"github.com/dustin/go-humanize"
)

// Disk condition error constants
var (
	ErrDiskConditionNil    = errors.New("disk condition cannot be nil")
	ErrDiskConditionCtxNil = errors.New("context cannot be nil")
)

// DiskSpaceCondition checks that the backup destination has room for a new archive
type DiskSpaceCondition struct {
	minDiskMB int
	path      string
	diskInfo  ports.DiskInfoProvider
}

// Compile-time check to ensure DiskSpaceCondition implements ports.ConditionService
var _ ports.ConditionService = (*DiskSpaceCondition)(nil)

// NewDiskSpaceCondition creates a new disk space condition for path
func NewDiskSpaceCondition(minDiskMB int, path string, diskInfo ports.DiskInfoProvider) (*DiskSpaceCondition, error) {
	if diskInfo == nil {
		return nil, errors.New("disk info provider cannot be nil")
	}
	if minDiskMB <= 0 {
		return nil, errors.New("min disk space must be positive")
	}
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}

	return &DiskSpaceCondition{
		minDiskMB: minDiskMB,
		path:      path,
		diskInfo:  diskInfo,
	}, nil
}

// Check validates that sufficient free disk space is available
func (c *DiskSpaceCondition) Check(ctx context.Context) error {
	if c == nil {
		return ErrDiskConditionNil
	}
	if ctx == nil {
		return ErrDiskConditionCtxNil
	}

	freeDisk, err := c.diskInfo.GetFreeDiskMB(c.path)
	if err != nil {
		return fmt.Errorf("failed to get free disk space: %w", err)
	}

	if freeDisk < c.minDiskMB {
		return fmt.Errorf("%w at %s: have %s, need %s", domain.ErrInsufficientDisk, c.path,
			humanize.IBytes(uint64(freeDisk)*humanize.MiByte), humanize.IBytes(uint64(c.minDiskMB)*humanize.MiByte))
	}

	return nil
}
