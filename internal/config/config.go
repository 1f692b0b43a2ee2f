// Package config provides configuration management for the Cutboard Agent.
// Configuration is loaded from environment variables with sensible defaults;
// an optional cutboard.yaml in the data directory supplies values for keys
// the environment leaves unset.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Default values
	DefaultPort            = 8788
	DefaultLogLevel        = "info"
	DefaultDataDir         = ".cutboard"
	DefaultAutosaveSeconds = 15

	// Environment variable names
	EnvPort            = "CUTBOARD_PORT"
	EnvLogLevel        = "CUTBOARD_LOG_LEVEL"
	EnvDataDir         = "CUTBOARD_DATA_DIR"
	EnvHeadless        = "CUTBOARD_HEADLESS"
	EnvTranscribeURL   = "CUTBOARD_TRANSCRIBE_URL"
	EnvTranscribeToken = "CUTBOARD_TRANSCRIBE_TOKEN"
	EnvAutosaveSeconds = "CUTBOARD_AUTOSAVE_SECONDS"

	// Database filename
	DBFilename = "cutboard.db"

	// Optional config file inside the data directory
	FileName = "cutboard.yaml"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	Headless() bool
	TranscribeURL() string
	TranscribeToken() string
	AutosaveInterval() time.Duration
}

// fileConfig mirrors the optional cutboard.yaml.
type fileConfig struct {
	Port            int    `yaml:"port"`
	LogLevel        string `yaml:"log_level"`
	Headless        *bool  `yaml:"headless"`
	TranscribeURL   string `yaml:"transcribe_url"`
	TranscribeToken string `yaml:"transcribe_token"`
	AutosaveSeconds int    `yaml:"autosave_seconds"`
}

// EnvConfig reads configuration from the environment and the optional file.
type EnvConfig struct {
	port            int
	logLevel        string
	dataDir         string
	headless        bool
	transcribeURL   string
	transcribeToken string
	autosaveSeconds int
}

// New creates a new EnvConfig with defaults, file values, and environment
// variable overrides, in that order of precedence (env wins).
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:            DefaultPort,
		logLevel:        DefaultLogLevel,
		dataDir:         defaultDataDir(),
		autosaveSeconds: DefaultAutosaveSeconds,
	}

	// The data directory must resolve first: the config file lives in it.
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if err := cfg.loadFile(filepath.Join(cfg.dataDir, FileName)); err != nil {
		return nil, err
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		cfg.port = port
	}
	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", cfg.port)
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if h := os.Getenv(EnvHeadless); h != "" {
		cfg.headless = h == "1" || h == "true"
	}

	if u := os.Getenv(EnvTranscribeURL); u != "" {
		cfg.transcribeURL = u
	}
	if t := os.Getenv(EnvTranscribeToken); t != "" {
		cfg.transcribeToken = t
	}

	if a := os.Getenv(EnvAutosaveSeconds); a != "" {
		secs, err := strconv.Atoi(a)
		if err != nil || secs < 1 {
			return nil, fmt.Errorf("invalid %s: %q", EnvAutosaveSeconds, a)
		}
		cfg.autosaveSeconds = secs
	}

	return cfg, nil
}

func (c *EnvConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Port != 0 {
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.Headless != nil {
		c.headless = *fc.Headless
	}
	if fc.TranscribeURL != "" {
		c.transcribeURL = fc.TranscribeURL
	}
	if fc.TranscribeToken != "" {
		c.transcribeToken = fc.TranscribeToken
	}
	if fc.AutosaveSeconds > 0 {
		c.autosaveSeconds = fc.AutosaveSeconds
	}
	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// TranscribeURL returns the external transcription service base URL;
// empty means the stub client is used.
func (c *EnvConfig) TranscribeURL() string {
	return c.transcribeURL
}

// TranscribeToken returns the bearer token for the transcription service
func (c *EnvConfig) TranscribeToken() string {
	return c.transcribeToken
}

// AutosaveInterval returns how often a dirty project is persisted
func (c *EnvConfig) AutosaveInterval() time.Duration {
	return time.Duration(c.autosaveSeconds) * time.Second
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
