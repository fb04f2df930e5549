// Package logging configures structured logging for the analysis engine.
//
// Output is log/slog throughout; the engine never writes log lines directly.
// Two formats are supported: "human" (timestamped key=value lines, see
// handler.go) and "json" (stdlib JSON handler).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the log output format.
type Format string

const (
	// FormatHuman emits timestamped key=value lines.
	FormatHuman Format = "human"
	// FormatJSON emits one JSON object per line.
	FormatJSON Format = "json"
)

// Config holds logger configuration.
type Config struct {
	Format Format
	Level  string
	Output io.Writer // defaults to stderr
}

// New creates a logger with the given configuration.
func New(cfg Config) *slog.Logger {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: LevelFromString(cfg.Level)}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(NewHumanHandler(w, opts))
}

// NewDiscard creates a logger that drops all output. Used in tests.
func NewDiscard() *slog.Logger {
	return slog.New(NewHumanHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString converts a string to a slog.Level.
// Supports debug, info, warn, error (case-insensitive); anything else is info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
