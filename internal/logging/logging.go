// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init sets the default logger: text on stderr, JSON when json is set, and
// debug level when verbose is set.
func Init(verbose, json bool) {
	slog.SetDefault(New(os.Stderr, verbose, json))
}

// New returns a logger writing to w.
func New(w io.Writer, verbose, json bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
