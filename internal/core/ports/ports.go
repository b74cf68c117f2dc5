package ports

import (
	"context"
	"io"

	"savekeeper/internal/core/domain"
)

// StorageRepository defines file operations inside the backup destination.
// Keys are names relative to the destination directory.
type StorageRepository interface {
	// List returns the file keys directly under prefix (non-recursive)
	List(ctx context.Context, prefix string) ([]string, error)

	// Create opens key for writing, truncating any existing file
	Create(ctx context.Context, key string) (io.WriteCloser, error)

	// Rename moves oldKey to newKey within the destination
	Rename(ctx context.Context, oldKey string, newKey string) error

	// Delete removes data by key
	Delete(ctx context.Context, key string) error

	// Path returns the filesystem path for key
	Path(key string) string
}

// ArchiveService selects save-state directories and packs them into a backup zip
type ArchiveService interface {
	// FindNewestStateDirectories returns up to limit GameStates_* folders, newest first
	FindNewestStateDirectories(ctx context.Context, saveRoot string, limit int) ([]domain.StateDirectory, error)

	// CreateBackupZip writes the directories into a new archive and returns its path
	CreateBackupZip(ctx context.Context, dirs []domain.StateDirectory, suffix string) (string, error)
}

// RotatorService marks superseded backups and recycles them
type RotatorService interface {
	// ArchiveExisting renames active backups and returns the last renamed path, or "" if none
	ArchiveExisting(ctx context.Context) (string, error)

	// DeleteArchived removes a previously archived backup
	DeleteArchived(ctx context.Context, path string) error
}

// VerifierService validates archive checksums
type VerifierService interface {
	// CheckIntegrity returns true only if every entry matches its stored CRC-32
	CheckIntegrity(ctx context.Context, path string) (bool, error)
}

// CloudUploader pushes a local archive to the object storage bucket
type CloudUploader interface {
	// Upload stores the file under its base name and returns the remote handle
	Upload(ctx context.Context, localPath string) (*domain.RemoteFile, error)
}

// Notifier delivers one chat message
type Notifier interface {
	Notify(ctx context.Context, msg domain.NotificationMessage) error
}

// ConditionService defines a pre-flight check that must pass before archiving
type ConditionService interface {
	Check(ctx context.Context) error
}

// DiskInfoProvider abstracts disk information for testability
type DiskInfoProvider interface {
	GetFreeDiskMB(path string) (int, error)
}

// RunnerService executes one complete backup run
type RunnerService interface {
	Run(ctx context.Context) (*domain.RunOutcome, error)
}
