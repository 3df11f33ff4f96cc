// Package config loads and saves the sage CLI configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL            = "http://localhost:5000"
	DefaultPollIntervalSeconds   = 30
	DefaultRequestTimeoutSeconds = 30
	DefaultHistoryFile           = "NEPSE.csv"
	DefaultHistorySinceYear      = 2024
	DefaultLogLevel              = "warn"

	// EnvAPIBaseURL overrides api_base_url from the config file.
	EnvAPIBaseURL = "SAGE_API_BASE_URL"
	// EnvLogLevel overrides log_level from the config file.
	EnvLogLevel = "SAGE_LOG_LEVEL"
)

// Config holds the CLI configuration.
type Config struct {
	APIBaseURL            string `yaml:"api_base_url"`
	PollIntervalSeconds   int    `yaml:"poll_interval_seconds"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	HistoryFile           string `yaml:"history_file"`
	HistorySinceYear      int    `yaml:"history_since_year"`
	LogLevel              string `yaml:"log_level"`
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:            DefaultAPIBaseURL,
		PollIntervalSeconds:   DefaultPollIntervalSeconds,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
		HistoryFile:           DefaultHistoryFile,
		HistorySinceYear:      DefaultHistorySinceYear,
		LogLevel:              DefaultLogLevel,
	}
}

// PollInterval is the market summary refresh interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// RequestTimeout bounds each API request.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate rejects values the CLI cannot run with.
func (c *Config) Validate() error {
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be positive, got %d", c.PollIntervalSeconds)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url must start with http:// or https://, got %q", c.APIBaseURL)
	}
	return nil
}

// Load reads the config at path. A missing file yields the defaults, and
// fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	defaults := DefaultConfig()
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaults.APIBaseURL
	}
	if cfg.PollIntervalSeconds == 0 {
		cfg.PollIntervalSeconds = defaults.PollIntervalSeconds
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = defaults.HistoryFile
	}
	if cfg.HistorySinceYear == 0 {
		cfg.HistorySinceYear = defaults.HistorySinceYear
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}

	return cfg, nil
}

// ApplyEnv overrides file values with SAGE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		c.APIBaseURL = strings.TrimSuffix(v, "/")
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// LoadDotEnv loads a .env file from the working directory into the
// process environment. Variables already set win. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save writes cfg to path, creating parent directories with 0700 and the
// file with 0600 permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ConfigDir returns the sage config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/sage.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sage")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sage")
}

// ConfigPath returns the path of config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SessionPath returns the path of the cached user snapshot.
func SessionPath() string {
	return filepath.Join(ConfigDir(), "session.json")
}
