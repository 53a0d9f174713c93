// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup builds the logger used across the tool. Diagnostic output goes to
// stderr so stdout stays clean for formatted results.
func Setup(debug bool) *slog.Logger {
	return New(os.Stderr, debug)
}

// New builds a logger writing to w. Split out from Setup for tests.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return log
}
