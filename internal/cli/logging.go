package cli

import (
	"io"
	"log/slog"

	"github.com/roach88/aes/internal/config"
)

// newLogger builds the diagnostic logger. Logs always go to w (stderr),
// never to stdout. --verbose forces debug level.
func newLogger(cfg config.LogConfig, verbose bool, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
