// Package logging sets up the file-backed slog logger. The terminal belongs
// to the UI, so nothing is written to stderr.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/rappel/internal/config"
)

// Setup opens (or creates) the log file at path and returns a text logger
// at the given level. The returned func closes the file.
func Setup(path, level string) (*slog.Logger, func() error, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})
	return slog.New(h), f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
