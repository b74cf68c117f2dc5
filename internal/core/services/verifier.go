package services

import (
	"archive/zip"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"savekeeper/internal/core/ports"
)

// Verifier error constants
var (
	ErrVerifierNil       = errors.New("verifier service cannot be nil")
	ErrVerifierLoggerNil = errors.New("logger cannot be nil")
)

// VerifierService checks stored CRC-32 values of a backup archive
type VerifierService struct {
	logger *slog.Logger
}

// Compile-time check to ensure VerifierService implements ports.VerifierService
var _ ports.VerifierService = (*VerifierService)(nil)

// NewVerifierService creates a new archive verifier
func NewVerifierService(logger *slog.Logger) (*VerifierService, error) {
	if logger == nil {
		return nil, ErrVerifierLoggerNil
	}
	return &VerifierService{logger: logger}, nil
}

// CheckIntegrity reads every entry in full so the zip reader compares the data with
// its recorded checksum. Damaged archives report false with a nil error; a missing
// or unreadable file is an error.
func (v *VerifierService) CheckIntegrity(ctx context.Context, path string) (bool, error) {
	if v == nil {
		return false, ErrVerifierNil
	}
	if ctx == nil {
		return false, errors.New("context cannot be nil")
	}

	if _, err := os.Stat(path); err != nil {
		return false, fmt.Errorf("failed to access archive %s: %w", path, err)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		if isCorruption(err) {
			v.logger.Warn("Archive structure is damaged", "path", path, "error", err)
			return false, nil
		}
		return false, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if err := readEntry(file); err != nil {
			if isCorruption(err) {
				v.logger.Warn("Archive entry failed verification", "path", path, "entry", file.Name, "error", err)
				return false, nil
			}
			return false, fmt.Errorf("failed to read entry %s: %w", file.Name, err)
		}
	}

	return true, nil
}

func readEntry(file *zip.File) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(io.Discard, rc)
	return err
}

// isCorruption classifies errors raised by damaged zip data
func isCorruption(err error) bool {
	return errors.Is(err, zip.ErrFormat) ||
		errors.Is(err, zip.ErrChecksum) ||
		errors.Is(err, zip.ErrAlgorithm) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, new(flate.CorruptInputError))
}
