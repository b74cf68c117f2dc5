package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"savekeeper/internal/adapters"
	"savekeeper/internal/core/domain"
	"savekeeper/internal/core/ports"
	"savekeeper/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
}

func newTestRotator(t *testing.T, dir string, clock *time.Time) *RotatorService {
	t.Helper()
	repo, err := adapters.NewFSRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	rotator, err := NewRotatorService(repo, testLogger(), func() time.Time { return *clock }, nil)
	require.NoError(t, err)
	return rotator
}

func TestNewRotatorService(t *testing.T) {
	storage := mocks.NewMockStorageRepository()

	_, err := NewRotatorService(nil, testLogger(), time.Now, nil)
	assert.ErrorIs(t, err, ErrRotatorStorageNil)

	_, err = NewRotatorService(storage, nil, time.Now, nil)
	assert.ErrorIs(t, err, ErrRotatorLoggerNil)

	_, err = NewRotatorService(storage, testLogger(), nil, nil)
	assert.ErrorIs(t, err, ErrRotatorClockNil)

	rotator, err := NewRotatorService(storage, testLogger(), time.Now, nil)
	assert.NoError(t, err)
	assert.NotNil(t, rotator)
}

func TestRotatorService_ArchiveExisting(t *testing.T) {
	ctx := context.Background()

	t.Run("empty destination", func(t *testing.T) {
		clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
		rotator := newTestRotator(t, t.TempDir(), &clock)

		path, err := rotator.ArchiveExisting(ctx)
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("renames active backup and leaves other files", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir,
			"GameStates_AM_20260228080000.zip",
			"GameStates_PM_20260227150000_Archive_20260228080000.zip",
			"notes.txt",
		)
		clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
		rotator := newTestRotator(t, dir, &clock)

		path, err := rotator.ArchiveExisting(ctx)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "GameStates_AM_20260228080000_Archive_20260301090000.zip"), path)

		assert.Equal(t, []string{
			"GameStates_AM_20260228080000_Archive_20260301090000.zip",
			"GameStates_PM_20260227150000_Archive_20260228080000.zip",
			"notes.txt",
		}, listDir(t, dir))
	})

	t.Run("rotation is idempotent across runs", func(t *testing.T) {
		dir := t.TempDir()
		clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
		rotator := newTestRotator(t, dir, &clock)

		touch(t, dir, "GameStates_AM_20260301090000.zip")
		clock = time.Date(2026, 3, 1, 15, 0, 0, 0, time.Local)
		first, err := rotator.ArchiveExisting(ctx)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "GameStates_AM_20260301090000_Archive_20260301150000.zip"), first)

		touch(t, dir, "GameStates_PM_20260301150000.zip")
		clock = time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
		second, err := rotator.ArchiveExisting(ctx)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "GameStates_PM_20260301150000_Archive_20260302090000.zip"), second)

		// Nothing active left, earlier archives are never archived again
		third, err := rotator.ArchiveExisting(ctx)
		require.NoError(t, err)
		assert.Empty(t, third)

		assert.Equal(t, []string{
			"GameStates_AM_20260301090000_Archive_20260301150000.zip",
			"GameStates_PM_20260301150000_Archive_20260302090000.zip",
		}, listDir(t, dir))
	})

	t.Run("multiple actives return the last renamed", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "GameStates_PM_20260228150000.zip", "GameStates_AM_20260301080000.zip")
		clock := time.Date(2026, 3, 1, 15, 0, 0, 0, time.Local)
		rotator := newTestRotator(t, dir, &clock)

		path, err := rotator.ArchiveExisting(ctx)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "GameStates_PM_20260228150000_Archive_20260301150000.zip"), path)
		assert.Len(t, listDir(t, dir), 2)
	})

	t.Run("large archive history does not block rotation", func(t *testing.T) {
		dir := t.TempDir()
		start := time.Date(2023, 1, 1, 8, 0, 0, 0, time.Local)
		for i := range 1001 {
			stamp := start.Add(time.Duration(i) * 12 * time.Hour)
			touch(t, dir, domain.ArchivedName(domain.ArchiveName("AM", stamp), stamp.Add(time.Hour)))
		}
		touch(t, dir, "GameStates_PM_20260101120000.zip")
		clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
		rotator := newTestRotator(t, dir, &clock)

		path, err := rotator.ArchiveExisting(ctx)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "GameStates_PM_20260101120000_Archive_20260301090000.zip"), path)

		names := listDir(t, dir)
		assert.Len(t, names, 1002)
		assert.NotContains(t, names, "GameStates_PM_20260101120000.zip")
	})

	t.Run("rename failure", func(t *testing.T) {
		storage := mocks.NewMockStorageRepository()
		storage.ListFunc = func(ctx context.Context, prefix string) ([]string, error) {
			return []string{"GameStates_AM_20260301080000.zip"}, nil
		}
		storage.RenameFunc = func(ctx context.Context, oldKey, newKey string) error {
			return errors.New("permission denied")
		}
		rotator, err := NewRotatorService(storage, testLogger(), time.Now, nil)
		require.NoError(t, err)

		path, err := rotator.ArchiveExisting(ctx)
		assert.ErrorContains(t, err, "permission denied")
		assert.Empty(t, path)
	})

	t.Run("emits events", func(t *testing.T) {
		events := make(chan ports.Event, 10)
		storage := mocks.NewMockStorageRepository()
		storage.ListFunc = func(ctx context.Context, prefix string) ([]string, error) {
			return []string{"GameStates_AM_20260301080000.zip"}, nil
		}
		rotator, err := NewRotatorService(storage, testLogger(), time.Now, events)
		require.NoError(t, err)

		_, err = rotator.ArchiveExisting(ctx)
		require.NoError(t, err)
		close(events)

		var count int
		for evt := range events {
			update, ok := evt.(ports.UpdateEvent)
			require.True(t, ok)
			assert.Equal(t, StageRotateOld, update.Operation)
			count++
		}
		assert.Equal(t, 1, count)
	})

	t.Run("nil receiver", func(t *testing.T) {
		var rotator *RotatorService
		_, err := rotator.ArchiveExisting(ctx)
		assert.ErrorIs(t, err, ErrRotatorNil)
	})
}

func TestRotatorService_DeleteArchived(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	touch(t, dir, "GameStates_AM_20260301080000_Archive_20260301150000.zip", "GameStates_PM_20260301150000.zip")
	clock := time.Date(2026, 3, 1, 15, 0, 0, 0, time.Local)
	rotator := newTestRotator(t, dir, &clock)

	t.Run("deletes by full path", func(t *testing.T) {
		err := rotator.DeleteArchived(ctx, filepath.Join(dir, "GameStates_AM_20260301080000_Archive_20260301150000.zip"))
		require.NoError(t, err)
		assert.Equal(t, []string{"GameStates_PM_20260301150000.zip"}, listDir(t, dir))
	})

	t.Run("missing file", func(t *testing.T) {
		err := rotator.DeleteArchived(ctx, filepath.Join(dir, "GameStates_AM_20260301080000_Archive_20260301150000.zip"))
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		assert.ErrorIs(t, rotator.DeleteArchived(ctx, ""), ErrRotatorPathEmpty)
	})
}
