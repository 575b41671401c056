// Package config holds the server configuration: defaults, optional TOML
// file overlay, and validation.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file looked up in the workspace root when no
// explicit --config flag is given
const FileName = "cartographer.toml"

// Config represents the configuration for the cartographer-mcp server
type Config struct {
	// GoplsPath is the gopls binary to launch
	GoplsPath string `toml:"gopls_path"`
	// WorkspaceRoot is the Go workspace to load at startup
	WorkspaceRoot string `toml:"workspace_root"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level"`
	// WarmupQuery is searched once after load to prime the engine caches
	WarmupQuery string `toml:"warmup_query"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		GoplsPath:     "gopls",
		WorkspaceRoot: ".",
		LogLevel:      "info",
		WarmupQuery:   "Reader",
	}
}

// LoadFile reads a TOML config file over the defaults
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Normalize makes the workspace root absolute and verifies it is a
// directory. Called once, after all overlays are applied.
func (c *Config) Normalize() error {
	abs, err := filepath.Abs(c.WorkspaceRoot)
	if err != nil {
		return fmt.Errorf("invalid workspace root %s: %w", c.WorkspaceRoot, err)
	}

	stat, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("invalid workspace root %s: %w", abs, err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("workspace root %s is not a directory", abs)
	}

	c.WorkspaceRoot = abs
	return nil
}

// ParseLevel maps a config log level to a slog level, rejecting anything
// outside the closed set
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: '%s', valid values are 'debug', 'info', 'warn', 'error'", s)
	}
}
