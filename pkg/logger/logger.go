// Package logger provides a shared structured logging implementation using slog.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config controls how the JSON logger is built.
type Config struct {
	// Output receives the log records. Nil means os.Stdout.
	Output io.Writer
	// Level is the minimum level that gets emitted.
	Level slog.Level
	// AddSource annotates records with the file and line of the call site.
	AddSource bool
}

// DefaultConfig is info-level JSON on stdout.
func DefaultConfig() *Config {
	return &Config{
		Level:  slog.LevelInfo,
		Output: os.Stdout,
	}
}

// New builds a JSON logger from cfg. A nil cfg behaves like DefaultConfig.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}))
}

// NewDefault builds a logger with DefaultConfig.
func NewDefault() *slog.Logger {
	return New(DefaultConfig())
}

// ParseLevel maps a level name ("debug", "info", "warn"/"warning",
// "error") to its slog.Level. Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
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
