package logger

import (
	"io"
	"log/slog"
	"strings"
)

// New returns the pretty handler in development and JSON everywhere else.
func New(w io.Writer, env string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if env == "development" {
		return slog.New(NewPrettyHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

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
