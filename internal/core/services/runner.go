package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"savekeeper/internal/config"
	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Pipeline stage names reported on the events channel
const (
	StageValidateSaveDir    = "ValidateSaveDir"
	StageCheckDiskSpace     = "CheckDiskSpace"
	StageRotateOld          = "RotateOld"
	StageSelectDirectories  = "SelectDirectories"
	StageBuildArchive       = "BuildArchive"
	StageVerifyIntegrity    = "VerifyIntegrity"
	StageRecycleOld         = "RecycleOld"
	StageNotifySuccess      = "NotifySuccess"
	StageUploadCloud        = "UploadCloud"
	StageNotifyUploadResult = "NotifyUploadResult"
)

// Runner error constants
var (
	ErrRunnerNil         = errors.New("runner service cannot be nil")
	ErrRunnerSettingsNil = errors.New("settings cannot be nil")
	ErrRunnerArchiveNil  = errors.New("archive service cannot be nil")
	ErrRunnerRotatorNil  = errors.New("rotator service cannot be nil")
	ErrRunnerVerifierNil = errors.New("verifier service is required when integrity checks are enabled")
	ErrRunnerUploaderNil = errors.New("cloud uploader is required when cloud backups are enabled")
	ErrRunnerNotifierNil = errors.New("notifier is required when a webhook is configured")
	ErrRunnerLoggerNil   = errors.New("logger cannot be nil")
	ErrRunnerClockNil    = errors.New("clock cannot be nil")
)

// RunnerService executes one backup run as a linear state machine.
// Any failing stage is logged, reported once through the notifier and returned.
type RunnerService struct {
	settings   *config.Settings
	archive    ports.ArchiveService
	rotator    ports.RotatorService
	verifier   ports.VerifierService
	uploader   ports.CloudUploader
	notifier   ports.Notifier
	conditions []ports.ConditionService
	logger     *slog.Logger
	now        func() time.Time
	events     chan<- ports.Event
}

// Compile-time check to ensure RunnerService implements ports.RunnerService
var _ ports.RunnerService = (*RunnerService)(nil)

// NewRunnerService creates a new backup runner.
// verifier, uploader and notifier may be nil when the matching feature is switched off.
func NewRunnerService(
	settings *config.Settings,
	archive ports.ArchiveService,
	rotator ports.RotatorService,
	verifier ports.VerifierService,
	uploader ports.CloudUploader,
	notifier ports.Notifier,
	conditions []ports.ConditionService,
	logger *slog.Logger,
	now func() time.Time,
	events chan<- ports.Event,
) (*RunnerService, error) {
	if settings == nil {
		return nil, ErrRunnerSettingsNil
	}
	if archive == nil {
		return nil, ErrRunnerArchiveNil
	}
	if rotator == nil {
		return nil, ErrRunnerRotatorNil
	}
	if settings.CheckIntegrity && verifier == nil {
		return nil, ErrRunnerVerifierNil
	}
	if settings.CloudBackups && uploader == nil {
		return nil, ErrRunnerUploaderNil
	}
	if settings.NotificationsEnabled() && notifier == nil {
		return nil, ErrRunnerNotifierNil
	}
	if logger == nil {
		return nil, ErrRunnerLoggerNil
	}
	if now == nil {
		return nil, ErrRunnerClockNil
	}

	return &RunnerService{
		settings:   settings,
		archive:    archive,
		rotator:    rotator,
		verifier:   verifier,
		uploader:   uploader,
		notifier:   notifier,
		conditions: conditions,
		logger:     logger,
		now:        now,
		events:     events,
	}, nil
}

// send safely sends an event to the channel
func (r *RunnerService) send(evt ports.Event) {
	ports.SendEvent(r.events, evt)
}

// stage wraps fn with Start/Finish/Error events
func (r *RunnerService) stage(name string, fn func() error) error {
	r.send(ports.StartEvent{Operation: name})
	if err := fn(); err != nil {
		r.send(ports.ErrorEvent{Operation: name, Err: err})
		return err
	}
	r.send(ports.FinishEvent{Operation: name})
	return nil
}

// step wraps fn with Start/Finish events for stages that cannot fail
func (r *RunnerService) step(name string, fn func()) {
	r.send(ports.StartEvent{Operation: name})
	fn()
	r.send(ports.FinishEvent{Operation: name})
}

// Run executes the backup pipeline:
// ValidateSaveDir, CheckDiskSpace, RotateOld, SelectDirectories, BuildArchive,
// VerifyIntegrity, RecycleOld, NotifySuccess, UploadCloud, NotifyUploadResult.
func (r *RunnerService) Run(ctx context.Context) (*domain.RunOutcome, error) {
	if r == nil {
		return nil, ErrRunnerNil
	}
	if ctx == nil {
		return nil, errors.New("context cannot be nil")
	}

	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	outcome := &domain.RunOutcome{RunID: runID}

	logger.Info("Starting backup run",
		"save_directory", r.settings.SaveDirectory,
		"backup_directory", r.settings.BackupDirectory,
		"max_states", r.settings.MaxStates)

	var missingMessage string
	if err := r.stage(StageValidateSaveDir, func() error {
		var err error
		missingMessage, err = r.validateSaveDir()
		return err
	}); err != nil {
		return nil, r.fail(ctx, logger, err, missingMessage)
	}

	if len(r.conditions) > 0 {
		if err := r.stage(StageCheckDiskSpace, func() error {
			for _, condition := range r.conditions {
				if err := condition.Check(ctx); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return nil, r.fail(ctx, logger, err, "")
		}
	}

	if err := r.stage(StageRotateOld, func() error {
		archived, err := r.rotator.ArchiveExisting(ctx)
		outcome.ArchivedPrevious = archived
		return err
	}); err != nil {
		return nil, r.fail(ctx, logger, err, "")
	}

	if err := r.stage(StageSelectDirectories, func() error {
		dirs, err := r.archive.FindNewestStateDirectories(ctx, r.settings.SaveDirectory, r.settings.MaxStates)
		if err != nil {
			return err
		}
		if len(dirs) == 0 {
			logger.Warn("No save states found, the backup will be empty", "save_directory", r.settings.SaveDirectory)
		}
		outcome.Directories = dirs
		return nil
	}); err != nil {
		return nil, r.fail(ctx, logger, err, "")
	}

	if err := r.stage(StageBuildArchive, func() error {
		suffix := domain.SessionSuffix(r.now())
		path, err := r.archive.CreateBackupZip(ctx, outcome.Directories, suffix)
		if err != nil {
			return err
		}
		outcome.ArchivePath = path

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: failed to stat archive: %w", domain.ErrArchiveIO, err)
		}
		outcome.ArchiveSize = info.Size()
		return nil
	}); err != nil {
		return nil, r.fail(ctx, logger, err, "")
	}

	if r.settings.CheckIntegrity {
		var integrityMessage string
		if err := r.stage(StageVerifyIntegrity, func() error {
			ok, err := r.verifier.CheckIntegrity(ctx, outcome.ArchivePath)
			if err != nil {
				return err
			}
			if !ok {
				integrityMessage = "The backup zip file failed the integrity check."
				return fmt.Errorf("%w: %s", domain.ErrIntegrityCheckFailed, outcome.ArchivePath)
			}
			outcome.Verified = true
			return nil
		}); err != nil {
			return nil, r.fail(ctx, logger, err, integrityMessage)
		}
	}

	if r.settings.Recycle && outcome.ArchivedPrevious != "" {
		if err := r.stage(StageRecycleOld, func() error {
			if err := r.rotator.DeleteArchived(ctx, outcome.ArchivedPrevious); err != nil {
				return err
			}
			outcome.DeletedPrevious = true
			return nil
		}); err != nil {
			return nil, r.fail(ctx, logger, err, "")
		}

		message := fmt.Sprintf("Older backup file %s has been deleted.", filepath.Base(outcome.ArchivedPrevious))
		logger.Info(message)
		r.notify(ctx, logger, message)
	}

	r.step(StageNotifySuccess, func() {
		logger.Info("Backup file created",
			"path", outcome.ArchivePath,
			"size", humanize.Bytes(uint64(outcome.ArchiveSize)),
			"states", len(outcome.Directories))
		r.notify(ctx, logger, fmt.Sprintf("Backup file created: %s, I am configured to store %d GameStates per backup run.",
			outcome.ArchivePath, r.settings.MaxStates))
	})

	if r.settings.CloudBackups {
		var uploadMessage string
		if err := r.stage(StageUploadCloud, func() error {
			uploadCtx, cancel := context.WithTimeout(ctx, r.settings.UploadTimeout)
			defer cancel()

			remote, err := r.uploader.Upload(uploadCtx, outcome.ArchivePath)
			if err == nil && remote == nil {
				err = fmt.Errorf("%w: uploader returned no remote file", domain.ErrCloudUpload)
			}
			if err != nil {
				uploadMessage = fmt.Sprintf("Failed to upload to Backblaze: %v", err)
				if !errors.Is(err, domain.ErrCloudUpload) {
					err = fmt.Errorf("%w: %w", domain.ErrCloudUpload, err)
				}
				return err
			}
			outcome.Remote = remote
			return nil
		}); err != nil {
			return nil, r.fail(ctx, logger, err, uploadMessage)
		}

		r.step(StageNotifyUploadResult, func() {
			logger.Info("File uploaded to Backblaze Bucket", "bucket", outcome.Remote.Bucket, "key", outcome.Remote.Key)
			r.notify(ctx, logger, "File uploaded to Backblaze Bucket")
		})
	}

	logger.Info("Backup run completed", "path", outcome.ArchivePath)
	return outcome, nil
}

// validateSaveDir returns the user facing message alongside the error
func (r *RunnerService) validateSaveDir() (string, error) {
	dir := r.settings.SaveDirectory
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return "", nil
	}

	message := fmt.Sprintf("The save directory %s does not exist.", dir)
	if err != nil && !os.IsNotExist(err) {
		return message, fmt.Errorf("%w: %s: %w", domain.ErrMissingSaveDirectory, dir, err)
	}
	return message, fmt.Errorf("%w: %s", domain.ErrMissingSaveDirectory, dir)
}

// fail logs err and sends a single failure notification.
// An empty message falls back to a generic one built from err.
func (r *RunnerService) fail(ctx context.Context, logger *slog.Logger, err error, message string) error {
	if message == "" {
		message = fmt.Sprintf("An error occurred: %v", err)
	}
	logger.Error(message, "error", err)
	r.notify(ctx, logger, message)
	return err
}

// notify delivers content when notifications are enabled. Delivery problems are
// logged and never returned.
func (r *RunnerService) notify(ctx context.Context, logger *slog.Logger, content string) {
	if !r.settings.NotificationsEnabled() || r.notifier == nil {
		return
	}

	msg, err := domain.NewNotificationMessage(content, r.settings.DiscordUser, r.settings.AvatarURL)
	if err != nil {
		logger.Warn("Failed to build notification", "error", err)
		return
	}

	// Failure reports must still go out after the run context is cancelled
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.settings.NotifyTimeout)
	defer cancel()

	if err := r.notifier.Notify(notifyCtx, msg); err != nil {
		logger.Warn("Failed to send notification", "error", err)
	}
}
