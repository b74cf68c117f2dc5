package testhelpers_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"savekeeper/internal/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSaveStates(t *testing.T) {
	saveRoot := filepath.Join(t.TempDir(), "Saved")
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local)

	paths, err := testhelpers.CreateSaveStates(saveRoot, []testhelpers.SaveState{
		{Name: "GameStates_1", ModTime: base},
		{Name: "GameStates_2", ModTime: base.Add(time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for i, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.True(t, info.ModTime().Equal(base.Add(time.Duration(i)*time.Hour)))

		_, err = os.Stat(filepath.Join(path, "Players", "player_0.sav"))
		assert.NoError(t, err)
	}
}

func TestExtractZip(t *testing.T) {
	tempDir := t.TempDir()
	zipPath := filepath.Join(tempDir, "test.zip")

	file, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(file)
	w, err := zw.Create("GameStates_1/Players/p.sav")
	require.NoError(t, err)
	_, err = w.Write([]byte("player"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, file.Close())

	t.Run("extracts nested entries", func(t *testing.T) {
		dest := filepath.Join(tempDir, "out")
		require.NoError(t, testhelpers.ExtractZip(zipPath, dest))

		data, err := os.ReadFile(filepath.Join(dest, "GameStates_1", "Players", "p.sav"))
		require.NoError(t, err)
		assert.Equal(t, "player", string(data))
	})

	t.Run("lists entry names", func(t *testing.T) {
		names, err := testhelpers.ZipEntryNames(zipPath)
		require.NoError(t, err)
		assert.Equal(t, []string{"GameStates_1/Players/p.sav"}, names)
	})

	t.Run("missing archive", func(t *testing.T) {
		assert.Error(t, testhelpers.ExtractZip(filepath.Join(tempDir, "missing.zip"), tempDir))
	})
}
