package services

import (
	"archive/zip"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"
)

// ArchiveService error constants
var (
	ErrArchiveStorageNil     = errors.New("storage repository cannot be nil")
	ErrArchiveNil            = errors.New("archive service cannot be nil")
	ErrArchiveSaveRootEmpty  = errors.New("save root cannot be empty")
	ErrArchiveInvalidLevel   = errors.New("compression level must be between 0 and 9")
	ErrArchiveInvalidLimit   = errors.New("state limit must be positive")
	ErrArchiveSuffixEmpty    = errors.New("session suffix cannot be empty")
	ErrArchiveContextNil     = errors.New("context cannot be nil")
	ErrArchiveClockNil       = errors.New("clock cannot be nil")
	ErrArchiveLoggerNil      = errors.New("logger cannot be nil")
)

// ArchiveService selects the newest save states and packs them into a zip
type ArchiveService struct {
	storage          ports.StorageRepository
	saveRoot         string
	compressionLevel int
	logger           *slog.Logger
	now              func() time.Time
}

// Compile-time check to ensure ArchiveService implements ports.ArchiveService
var _ ports.ArchiveService = (*ArchiveService)(nil)

// NewArchiveService creates a new ArchiveService instance.
// Entry names inside the archive are computed relative to saveRoot.
func NewArchiveService(storage ports.StorageRepository, saveRoot string, compressionLevel int, logger *slog.Logger, now func() time.Time) (*ArchiveService, error) {
	if storage == nil {
		return nil, ErrArchiveStorageNil
	}
	if saveRoot == "" {
		return nil, ErrArchiveSaveRootEmpty
	}
	if compressionLevel < 0 || compressionLevel > 9 {
		return nil, ErrArchiveInvalidLevel
	}
	if logger == nil {
		return nil, ErrArchiveLoggerNil
	}
	if now == nil {
		return nil, ErrArchiveClockNil
	}

	return &ArchiveService{
		storage:          storage,
		saveRoot:         saveRoot,
		compressionLevel: compressionLevel,
		logger:           logger,
		now:              now,
	}, nil
}

// FindNewestStateDirectories returns at most limit GameStates_* subdirectories of
// saveRoot ordered by modification time, newest first. Ties keep the name order
// of the directory listing.
func (a *ArchiveService) FindNewestStateDirectories(ctx context.Context, saveRoot string, limit int) ([]domain.StateDirectory, error) {
	if a == nil {
		return nil, ErrArchiveNil
	}
	if ctx == nil {
		return nil, ErrArchiveContextNil
	}
	if saveRoot == "" {
		return nil, ErrArchiveSaveRootEmpty
	}
	if limit <= 0 {
		return nil, ErrArchiveInvalidLimit
	}

	entries, err := os.ReadDir(saveRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to list save root %s: %w", saveRoot, err)
	}

	var dirs []domain.StateDirectory
	for _, entry := range entries {
		if !domain.IsStateDirectoryName(entry.Name()) {
			continue
		}

		path := filepath.Join(saveRoot, entry.Name())
		// Stat follows symlinks so linked state folders are picked up too
		info, err := os.Stat(path)
		if err != nil {
			a.logger.Warn("Skipping unreadable state entry", "path", path, "error", err)
			continue
		}
		if !info.IsDir() {
			continue
		}

		dirs = append(dirs, domain.StateDirectory{Path: path, ModTime: info.ModTime()})
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		return dirs[i].ModTime.After(dirs[j].ModTime)
	})

	if len(dirs) > limit {
		dirs = dirs[:limit]
	}

	return dirs, nil
}

// CreateBackupZip writes every regular file below dirs into
// GameStates_<suffix>_<timestamp>.zip and returns the archive path.
// A failed build leaves the partial archive on disk.
func (a *ArchiveService) CreateBackupZip(ctx context.Context, dirs []domain.StateDirectory, suffix string) (string, error) {
	if a == nil {
		return "", ErrArchiveNil
	}
	if ctx == nil {
		return "", ErrArchiveContextNil
	}
	if suffix == "" {
		return "", ErrArchiveSuffixEmpty
	}

	absRoot, err := filepath.Abs(a.saveRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve save root: %w", err)
	}

	name := domain.ArchiveName(suffix, a.now())
	out, err := a.storage.Create(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create zip file: %w", domain.ErrArchiveIO, err)
	}

	zipWriter := zip.NewWriter(out)
	method := zip.Store
	if a.compressionLevel > 0 {
		method = zip.Deflate
		level := a.compressionLevel
		zipWriter.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, level)
		})
	}

	for _, dir := range dirs {
		err = a.archiveDirectory(ctx, zipWriter, absRoot, dir.Path, method)
		if err != nil {
			zipWriter.Close()
			out.Close()
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", fmt.Errorf("archive build interrupted: %w", err)
			}
			return "", fmt.Errorf("%w: failed to archive %s: %w", domain.ErrArchiveIO, dir.Path, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		out.Close()
		return "", fmt.Errorf("%w: failed to finalize zip: %w", domain.ErrArchiveIO, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to close zip file: %w", domain.ErrArchiveIO, err)
	}

	return a.storage.Path(name), nil
}

// archiveDirectory adds every regular file below dir. A symlinked dir is walked
// at its target while entry names keep the link's own path.
func (a *ArchiveService) archiveDirectory(ctx context.Context, zipWriter *zip.Writer, absRoot string, dir string, method uint16) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	walkRoot, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return err
	}

	return filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		inDir, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(absRoot, filepath.Join(absDir, inDir))
		if err != nil {
			return err
		}
		return a.archivePath(zipWriter, relPath, path, method)
	})
}

// archivePath stores a single file under relPath
func (a *ArchiveService) archivePath(zipWriter *zip.Writer, relPath string, path string, method uint16) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(relPath)
	header.Method = method

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(writer, file)
	return err
}
