package adapters

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFSRepository(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		repo, err := NewFSRepository(t.TempDir())
		require.NoError(t, err)
		assert.NoError(t, repo.Close())
	})

	t.Run("missing directory", func(t *testing.T) {
		repo, err := NewFSRepository(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
		assert.Nil(t, repo)
	})
}

func TestFSRepository_Create(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	repo, err := NewFSRepository(tempDir)
	require.NoError(t, err)
	defer repo.Close()

	t.Run("writes file", func(t *testing.T) {
		w, err := repo.Create(ctx, "GameStates_AM_20260101000000.zip")
		require.NoError(t, err)
		_, err = w.Write([]byte("zip bytes"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		data, err := os.ReadFile(filepath.Join(tempDir, "GameStates_AM_20260101000000.zip"))
		require.NoError(t, err)
		assert.Equal(t, "zip bytes", string(data))
	})

	t.Run("creates directories", func(t *testing.T) {
		w, err := repo.Create(ctx, "nested/dir/file.zip")
		require.NoError(t, err)
		require.NoError(t, w.Close())

		_, err = os.Stat(filepath.Join(tempDir, "nested", "dir", "file.zip"))
		assert.NoError(t, err)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := repo.Create(ctx, "")
		assert.Error(t, err)
	})

	t.Run("escaping the root is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, "../outside.zip")
		assert.Error(t, err)
	})
}

func TestFSRepository_Rename(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	repo, err := NewFSRepository(tempDir)
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "old.zip"), []byte("data"), 0644))

	t.Run("successful rename", func(t *testing.T) {
		require.NoError(t, repo.Rename(ctx, "old.zip", "new.zip"))

		_, err := os.Stat(filepath.Join(tempDir, "old.zip"))
		assert.True(t, os.IsNotExist(err))
		data, err := os.ReadFile(filepath.Join(tempDir, "new.zip"))
		require.NoError(t, err)
		assert.Equal(t, "data", string(data))
	})

	t.Run("missing source", func(t *testing.T) {
		assert.Error(t, repo.Rename(ctx, "missing.zip", "other.zip"))
	})

	t.Run("empty keys", func(t *testing.T) {
		assert.Error(t, repo.Rename(ctx, "", "other.zip"))
		assert.Error(t, repo.Rename(ctx, "new.zip", ""))
	})
}

func TestFSRepository_Delete(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	repo, err := NewFSRepository(tempDir)
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "gone.zip"), []byte("data"), 0644))

	t.Run("successful delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "gone.zip"))
		_, err := os.Stat(filepath.Join(tempDir, "gone.zip"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("key not found", func(t *testing.T) {
		assert.Error(t, repo.Delete(ctx, "gone.zip"))
	})
}

func TestFSRepository_List(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	repo, err := NewFSRepository(tempDir)
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.zip"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "b.zip"), []byte("b"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "sub", "c.zip"), []byte("c"), 0644))

	t.Run("root is non-recursive and skips directories", func(t *testing.T) {
		keys, err := repo.List(ctx, "")
		require.NoError(t, err)
		sort.Strings(keys)
		assert.Equal(t, []string{"a.zip", "b.zip"}, keys)
	})

	t.Run("subdirectory prefix", func(t *testing.T) {
		keys, err := repo.List(ctx, "sub")
		require.NoError(t, err)
		assert.Equal(t, []string{"sub/c.zip"}, keys)
	})

	t.Run("missing prefix is empty", func(t *testing.T) {
		keys, err := repo.List(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}

func TestFSRepository_Path(t *testing.T) {
	tempDir := t.TempDir()
	repo, err := NewFSRepository(tempDir)
	require.NoError(t, err)
	defer repo.Close()

	assert.Equal(t, filepath.Join(tempDir, "x.zip"), repo.Path("x.zip"))
	assert.Equal(t, filepath.Join(tempDir, "sub", "x.zip"), repo.Path("sub/x.zip"))
}

func TestFSRepository_NilReceiver(t *testing.T) {
	ctx := context.Background()
	var repo *FSRepository

	_, err := repo.Create(ctx, "x")
	assert.ErrorIs(t, err, ErrFSRepositoryNil)
	assert.ErrorIs(t, repo.Rename(ctx, "a", "b"), ErrFSRepositoryNil)
	assert.ErrorIs(t, repo.Delete(ctx, "a"), ErrFSRepositoryNil)
	_, err = repo.List(ctx, "")
	assert.ErrorIs(t, err, ErrFSRepositoryNil)
	assert.ErrorIs(t, repo.Close(), ErrFSRepositoryNil)
}
