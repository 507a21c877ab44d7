package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// newFileLogger sends slog output to a file so it never corrupts the
// alternate screen. PEEPLAB_LOG_FILE overrides the location; DEBUG
// raises the level.
func newFileLogger() (*slog.Logger, error) {
	logFile := os.Getenv("PEEPLAB_LOG_FILE")
	if logFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("determine home directory: %w", err)
		}
		logFile = filepath.Join(home, ".config", "peeplab", "peeplab.log")
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	logger.Debug("initialized file logger", "path", logFile, "level", level.String())
	return logger, nil
}
