package adapters

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"savekeeper/internal/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLogLevel maps debug/info/warn/error onto slog levels, defaulting to info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewRotatingLogFile opens path through a size based rotating writer.
// The file is rotated at 1 MB and the last five rotations are kept.
func NewRotatingLogFile(path string) (*lumberjack.Logger, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermission); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    config.LogMaxSizeMB,
		MaxBackups: config.LogMaxBackups,
	}, nil
}

// NewSlogLogger creates a text logger writing to every w at the given level
func NewSlogLogger(level slog.Level, w ...io.Writer) *slog.Logger {
	var out io.Writer = io.Discard
	switch len(w) {
	case 0:
	case 1:
		out = w[0]
	default:
		out = io.MultiWriter(w...)
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// NewFileLogger builds the run logger: stdout plus the rotating log file.
// The returned close function flushes and closes the log file.
func NewFileLogger(settings *config.Settings) (*slog.Logger, func() error, error) {
	if settings == nil {
		return nil, nil, fmt.Errorf("settings cannot be nil")
	}

	file, err := NewRotatingLogFile(settings.LogFile)
	if err != nil {
		return nil, nil, err
	}

	logger := NewSlogLogger(ParseLogLevel(settings.LogLevel), os.Stdout, file)
	return logger.With("app", config.AppName), file.Close, nil
}
