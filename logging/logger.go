// Package logging builds the slog loggers used across mabsim.
//
// Logs go to stderr by default so that command output on stdout stays
// machine-readable:
//
//	logger := logging.New(logging.Config{Level: "debug"})
//	logger.Info("sweep started", "parameter", "epsilon")
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config configures a logger. The zero value logs Info and above as text
// to stderr.
type Config struct {
	Level  string    // debug, info, warn or error
	JSON   bool      // JSON instead of text output
	Output io.Writer // defaults to os.Stderr
}

// ParseLevel maps a level name to its slog level. Unknown names map to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New returns a logger for cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h)
}

// Component returns a child logger tagged with a component name. A nil
// parent falls back to slog.Default().
func Component(parent *slog.Logger, name string) *slog.Logger {
	if parent == nil {
		parent = slog.Default()
	}
	return parent.With(slog.String("component", name))
}
