// Package config provides configuration management for the LeapLite CLI.
//
// Settings merge from four layers: built-in defaults, a YAML config file,
// LEAPLITE_ environment variables, and command-line flags, each layer
// overriding the one before it.
package config

import (
	"os"
	"path/filepath"
)

// Config holds all CLI configuration options.
type Config struct {
	// Database is the SQLite file to open; empty means in-memory.
	Database string `koanf:"database"`
	// Prompt is the prompt template; \d expands to the database name.
	Prompt        string `koanf:"prompt"`
	OutputFormat  string `koanf:"output_format"`
	KeywordCasing string `koanf:"keyword_casing"`
	HistoryFile   string `koanf:"history_file"`
	StateFile     string `koanf:"state_file"`
	NoState       bool   `koanf:"no_state"`
	Timing        bool   `koanf:"timing"`
	AutoRefresh   bool   `koanf:"auto_refresh"`
	LogFile       string `koanf:"log_file"`
	LogLevel      string `koanf:"log_level"`
	Verbose       bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultPrompt        = `leaplite \d> `
	DefaultOutput        = "table"
	DefaultKeywordCasing = "auto"
	DefaultLogLevel      = "info"
)

// ConfigDir returns the directory holding the config file and history,
// honoring XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "leaplite")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".leaplite"
	}
	return filepath.Join(home, ".config", "leaplite")
}

// DataDir returns the directory holding the state database, honoring
// XDG_DATA_HOME.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "leaplite")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".leaplite"
	}
	return filepath.Join(home, ".local", "share", "leaplite")
}

// DefaultHistoryFile returns the default readline history location.
func DefaultHistoryFile() string {
	return filepath.Join(ConfigDir(), "history")
}

// DefaultStateFile returns the default state database location.
func DefaultStateFile() string {
	return filepath.Join(DataDir(), "state.db")
}
