package services

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verifierPayload = "save state payload that is long enough to locate in the stored archive"

// writeStoredZip writes an uncompressed archive so entry data can be tampered with
func writeStoredZip(t *testing.T, path string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"GameStates_1/world.sav", "GameStates_1/Players/p.sav"} {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		require.NoError(t, err)
		_, err = w.Write([]byte(verifierPayload + name))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return buf.Bytes()
}

func TestNewVerifierService(t *testing.T) {
	_, err := NewVerifierService(nil)
	assert.ErrorIs(t, err, ErrVerifierLoggerNil)

	verifier, err := NewVerifierService(testLogger())
	assert.NoError(t, err)
	assert.NotNil(t, verifier)
}

func TestVerifierService_CheckIntegrity(t *testing.T) {
	ctx := context.Background()
	verifier, err := NewVerifierService(testLogger())
	require.NoError(t, err)

	t.Run("intact archive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ok.zip")
		writeStoredZip(t, path)

		ok, err := verifier.CheckIntegrity(ctx, path)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("empty archive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.zip")
		var buf bytes.Buffer
		require.NoError(t, zip.NewWriter(&buf).Close())
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

		ok, err := verifier.CheckIntegrity(ctx, path)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("flipped data byte fails checksum", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corrupt.zip")
		data := writeStoredZip(t, path)

		idx := bytes.Index(data, []byte(verifierPayload))
		require.GreaterOrEqual(t, idx, 0)
		data[idx] ^= 0xFF
		require.NoError(t, os.WriteFile(path, data, 0644))

		ok, err := verifier.CheckIntegrity(ctx, path)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("truncated archive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "truncated.zip")
		data := writeStoredZip(t, path)
		require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0644))

		ok, err := verifier.CheckIntegrity(ctx, path)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.zip")
		require.NoError(t, os.WriteFile(path, []byte("definitely not a zip archive"), 0644))

		ok, err := verifier.CheckIntegrity(ctx, path)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		ok, err := verifier.CheckIntegrity(ctx, filepath.Join(t.TempDir(), "missing.zip"))
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("nil receiver", func(t *testing.T) {
		var nilVerifier *VerifierService
		_, err := nilVerifier.CheckIntegrity(ctx, "x.zip")
		assert.ErrorIs(t, err, ErrVerifierNil)
	})
}
