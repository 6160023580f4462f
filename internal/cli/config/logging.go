package config

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ParseLogLevel converts a log_level string into a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log_level: %q, must be one of: debug, info, warn, error", level)
	}
}

// NewLogger builds the logger the configuration describes. Verbose mode
// writes debug records to stderr. Otherwise records go to log_file at
// log_level when one is set, and are discarded when none is. The returned
// close function releases the log file, if any.
func NewLogger(cfg *Config) (*slog.Logger, func(), error) {
	if cfg.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(handler), func() {}, nil
	}

	if cfg.LogFile != "" {
		level, err := ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
		return slog.New(handler), func() { _ = f.Close() }, nil
	}

	// slog.DiscardHandler equivalent for pre-1.24 toolchains: never enabled,
	// never writes.
	discard := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})
	return slog.New(discard), func() {}, nil
}
