package testhelpers

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// HashDir calculates SHA-256 hash for entire directory structure.
// File paths are hashed relative to path, so equal trees in different places match.
func HashDir(path string) ([]byte, error) {
	h := sha256.New()
	var paths []string
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return nil, err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
	}
	return h.Sum(nil), nil
}

// HashDirs calculates a single combined SHA-256 hash for multiple directories
func HashDirs(paths ...string) ([]byte, error) {
	h := sha256.New()
	for _, path := range paths {
		dirHash, err := HashDir(path)
		if err != nil {
			return nil, err
		}
		h.Write(dirHash)
	}
	return h.Sum(nil), nil
}

// DirectoryChecksum returns the hex encoded HashDir of path
func DirectoryChecksum(path string) (string, error) {
	sum, err := HashDir(path)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// DirPair represents two sets of directory paths to compare
type DirPair struct {
	P1 []string
	P2 []string
}

// CheckDirs compares two sets of directories and returns true if their hashes match
func CheckDirs(data DirPair) (bool, error) {
	hash1, err := HashDirs(data.P1...)
	if err != nil {
		return false, err
	}
	hash2, err := HashDirs(data.P2...)
	if err != nil {
		return false, err
	}
	return string(hash1) == string(hash2), nil
}
