package logging

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger creates a text logger writing to w at the given level.
// Unknown levels fall back to info.
func NewLogger(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})

	return slog.New(handler)
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
