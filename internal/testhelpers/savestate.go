package testhelpers

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SaveState describes one GameStates_* folder to create under a save root
type SaveState struct {
	Name    string
	ModTime time.Time
}

// CreateSaveStates creates the given state folders under saveRoot, each with a small
// nested file tree, and stamps their modification times. Returns the folder paths in
// input order.
func CreateSaveStates(saveRoot string, states []SaveState) ([]string, error) {
	if err := os.MkdirAll(saveRoot, 0755); err != nil {
		return nil, err
	}

	var paths []string
	for i, state := range states {
		dir := filepath.Join(saveRoot, state.Name)
		files := map[string]string{
			"world.sav":                              fmt.Sprintf("world data %d", i),
			"meta.json":                              fmt.Sprintf(`{"state":%q,"index":%d}`, state.Name, i),
			filepath.Join("Players", "player_0.sav"): fmt.Sprintf("player data %d", i),
			filepath.Join("Players", "player_1.sav"): fmt.Sprintf("player data %d-1", i),
		}
		for rel, content := range files {
			if err := WriteFile(dir, rel, content); err != nil {
				return nil, err
			}
		}

		// Stamp after populating so file creation does not bump the folder time
		if err := os.Chtimes(dir, state.ModTime, state.ModTime); err != nil {
			return nil, err
		}
		paths = append(paths, dir)
	}

	return paths, nil
}

// WriteFile writes content to base/rel, creating parent folders
func WriteFile(base string, rel string, content string) error {
	path := filepath.Join(base, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// ExtractZip unpacks the archive at zipPath into dest
func ExtractZip(zipPath string, dest string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		target := filepath.Join(dest, filepath.FromSlash(file.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal entry path: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := extractFile(file, target); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// ZipEntryNames lists entry names of the archive at zipPath
func ZipEntryNames(zipPath string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		names = append(names, file.Name)
	}
	return names, nil
}
