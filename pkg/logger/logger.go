// Package logger builds the application's slog.Logger from the logging
// configuration.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a logger writing to stderr at the given level ("debug",
// "info", "warn", "error") in the given format ("text" or "json").
// Unrecognized values fall back to info-level text output.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter is New with an explicit output writer, for tests and
// output redirection.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Nop returns a logger that discards everything. Components that take a
// logger default to this when none is injected.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level string to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
