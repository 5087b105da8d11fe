package logger

import (
	"log/slog"
	"os"
)

// NewConsoleHandler writes human-readable lines to stderr. Used by the
// command-line tools where stdout carries the report.
func NewConsoleHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}
