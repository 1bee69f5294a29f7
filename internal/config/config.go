// Package config resolves projtrack settings from defaults, the
// config.toml file in the data directory and PROJTRACK_* environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/HendryAvila/projtrack/internal/store"
	"github.com/HendryAvila/projtrack/internal/telemetry"
	"github.com/HendryAvila/projtrack/internal/tracker"
)

// FileName is the config file looked up inside the data directory.
const FileName = "config.toml"

// Environment variables.
const (
	EnvDataDir      = "PROJTRACK_DATA_DIR"
	EnvDBFile       = "PROJTRACK_DB"
	EnvLogLevel     = "PROJTRACK_LOG_LEVEL"
	EnvOTLPEndpoint = "PROJTRACK_OTLP_ENDPOINT"
)

// Config holds every projtrack setting.
type Config struct {
	DataDir        string           `toml:"data_dir"`
	DBFile         string           `toml:"db_file"`
	DefaultAIModel string           `toml:"default_ai_model"`
	LogLevel       string           `toml:"log_level"`
	Telemetry      telemetry.Config `toml:"telemetry"`
}

// Default returns the built-in settings.
func Default() Config {
	sc := store.DefaultConfig()
	return Config{
		DataDir:        sc.DataDir,
		DBFile:         sc.DBFile,
		DefaultAIModel: tracker.DefaultAIModel,
		LogLevel:       "info",
	}
}

// getenv is replaceable in tests.
var getenv = os.Getenv

// Load resolves the configuration. dataDir, when non-empty, overrides the
// default and environment data directory before the config file is read,
// so a --data-dir flag also picks that directory's config.toml.
func Load(dataDir string) (Config, error) {
	cfg := Default()

	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	path := filepath.Join(cfg.DataDir, FileName)
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	// The file may not move the data directory it was read from.
	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if v := getenv(EnvDBFile); v != "" {
		cfg.DBFile = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvOTLPEndpoint); v != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint = v
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Store returns the store settings.
func (c Config) Store() store.Config {
	return store.Config{DataDir: c.DataDir, DBFile: c.DBFile}
}

// Path returns the config file location.
func (c Config) Path() string {
	return filepath.Join(c.DataDir, FileName)
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// NewLogger returns a text logger at the configured level writing to w.
// stdout carries the MCP stream, so servers pass os.Stderr.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
