package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savekeeper/internal/adapters"
	"savekeeper/internal/config"
	"savekeeper/internal/core/ports"
	"savekeeper/internal/core/services"
)

// Process exit codes
const (
	exitOK            = 0
	exitFailure       = 1
	exitConfiguration = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	settings, err := config.Load(config.LoadOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	if err := settings.EnsureBackupDirectory(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	logger, closeLog, err := adapters.NewFileLogger(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan ports.Event, 16)
	done := make(chan struct{})
	go func() {
		consumeEvents(events, os.Stdout)
		close(done)
	}()

	code := execute(ctx, settings, logger, events)
	close(events)
	<-done
	return code
}

// execute wires the services and performs one backup run
func execute(ctx context.Context, settings *config.Settings, logger *slog.Logger, events chan<- ports.Event) int {
	runner, cleanup, err := buildRunner(ctx, settings, logger, events)
	if err != nil {
		logger.Error("Failed to initialize backup run", "error", err)
		return exitCode(err)
	}
	defer cleanup()

	outcome, err := runner.Run(ctx)
	if err != nil {
		return exitCode(err)
	}

	logger.Info("Backup finished", "run_id", outcome.RunID, "path", outcome.ArchivePath)
	return exitOK
}

// buildRunner assembles the runner from settings. Optional services are only
// created when their feature is switched on.
func buildRunner(ctx context.Context, settings *config.Settings, logger *slog.Logger, events chan<- ports.Event) (*services.RunnerService, func() error, error) {
	repo, err := adapters.NewFSRepository(settings.BackupDirectory)
	if err != nil {
		return nil, nil, err
	}

	archive, err := services.NewArchiveService(repo, settings.SaveDirectory, settings.CompressionLevel, logger, time.Now)
	if err != nil {
		repo.Close()
		return nil, nil, err
	}

	rotator, err := services.NewRotatorService(repo, logger, time.Now, events)
	if err != nil {
		repo.Close()
		return nil, nil, err
	}

	var verifier ports.VerifierService
	if settings.CheckIntegrity {
		v, err := services.NewVerifierService(logger)
		if err != nil {
			repo.Close()
			return nil, nil, err
		}
		verifier = v
	}

	var uploader ports.CloudUploader
	if settings.CloudBackups {
		u, err := adapters.NewB2Uploader(ctx, settings, logger)
		if err != nil {
			repo.Close()
			return nil, nil, err
		}
		uploader = u
	}

	var notifier ports.Notifier
	if settings.NotificationsEnabled() {
		n, err := adapters.NewWebhookNotifier(settings.WebhookURL, settings.NotifyTimeout)
		if err != nil {
			repo.Close()
			return nil, nil, err
		}
		notifier = n
	}

	var conditions []ports.ConditionService
	if settings.MinFreeDiskMB > 0 {
		c, err := services.NewDiskSpaceCondition(settings.MinFreeDiskMB, settings.BackupDirectory, adapters.NewDiskInfo())
		if err != nil {
			repo.Close()
			return nil, nil, err
		}
		conditions = append(conditions, c)
	}

	runner, err := services.NewRunnerService(settings, archive, rotator, verifier, uploader, notifier, conditions, logger, time.Now, events)
	if err != nil {
		repo.Close()
		return nil, nil, err
	}

	return runner, repo.Close, nil
}

// exitCode maps a run error onto the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrConfiguration):
		return exitConfiguration
	default:
		return exitFailure
	}
}
