package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"
)

// Rotator error constants
var (
	ErrRotatorStorageNil = errors.New("backup storage repository cannot be nil")
	ErrRotatorLoggerNil  = errors.New("logger cannot be nil")
	ErrRotatorClockNil   = errors.New("clock cannot be nil")
	ErrRotatorNil        = errors.New("rotator service cannot be nil")
	ErrRotatorPathEmpty  = errors.New("archived backup path cannot be empty")
)

// RotatorService marks the previous run's backups as archived and recycles them
type RotatorService struct {
	storage ports.StorageRepository
	logger  *slog.Logger
	now     func() time.Time
	events  chan<- ports.Event
}

// Compile-time check to ensure RotatorService implements ports.RotatorService
var _ ports.RotatorService = (*RotatorService)(nil)

// NewRotatorService creates a new rotator over the backup destination
func NewRotatorService(storage ports.StorageRepository, logger *slog.Logger, now func() time.Time, events chan<- ports.Event) (*RotatorService, error) {
	if storage == nil {
		return nil, ErrRotatorStorageNil
	}
	if logger == nil {
		return nil, ErrRotatorLoggerNil
	}
	if now == nil {
		return nil, ErrRotatorClockNil
	}

	return &RotatorService{
		storage: storage,
		logger:  logger,
		now:     now,
		events:  events,
	}, nil
}

// send safely sends an event to the channel
func (r *RotatorService) send(evt ports.Event) {
	ports.SendEvent(r.events, evt)
}

// ArchiveExisting renames every active GameStates_*.zip in the destination to its
// _Archive_<timestamp> form. Returns the path of the last renamed file, or "" when
// nothing needed rotating. Names are processed in ascending order.
func (r *RotatorService) ArchiveExisting(ctx context.Context) (string, error) {
	if r == nil {
		return "", ErrRotatorNil
	}
	if ctx == nil {
		return "", errors.New("context cannot be nil")
	}

	keys, err := r.storage.List(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to list backups: %w", err)
	}

	var active []string
	for _, key := range keys {
		if !domain.IsBackupCandidate(key) || domain.IsArchivedBackup(key) {
			continue
		}
		active = append(active, key)
	}
	sort.Strings(active)

	if len(active) > 1 {
		r.logger.Warn("Multiple active backups found, the last one renamed will be recycled", "count", len(active))
	}

	now := r.now()
	var lastPath string
	for _, key := range active {
		if err := ctx.Err(); err != nil {
			return lastPath, err
		}

		archived := domain.ArchivedName(key, now)
		if err := r.storage.Rename(ctx, key, archived); err != nil {
			return lastPath, fmt.Errorf("failed to archive backup %s: %w", key, err)
		}

		lastPath = r.storage.Path(archived)
		r.logger.Info("Archived previous backup", "from", key, "to", archived)
		r.send(ports.UpdateEvent{Operation: StageRotateOld, Message: "Archived previous backup", Data: map[string]any{
			"from": key,
			"to":   archived,
		}})
	}

	return lastPath, nil
}

// DeleteArchived removes the archived backup at path from the destination
func (r *RotatorService) DeleteArchived(ctx context.Context, path string) error {
	if r == nil {
		return ErrRotatorNil
	}
	if ctx == nil {
		return errors.New("context cannot be nil")
	}
	if path == "" {
		return ErrRotatorPathEmpty
	}

	key := filepath.Base(path)
	if err := r.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete archived backup %s: %w", key, err)
	}

	r.logger.Info("Deleted archived backup", "key", key)
	r.send(ports.UpdateEvent{Operation: StageRecycleOld, Message: "Deleted archived backup", Data: map[string]any{"key": key}})
	return nil
}
