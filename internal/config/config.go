// Package config handles loading and saving application configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hy4ri/tasklist-tui/internal/api"
	"gopkg.in/yaml.v3"
)

const (
	appName = "tasklist"

	// EnvBaseURL overrides server.base_url.
	EnvBaseURL = "TASKLIST_URL"
)

// Config represents the application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	UI            UIConfig            `yaml:"ui"`
	Log           LogConfig           `yaml:"log"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// ServerConfig describes the remote task collection.
type ServerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	// Language selects labels, log messages and collation ("en", "ru").
	// Empty means detect from the environment.
	Language           string `yaml:"language,omitempty"`
	SortAlphabetically bool   `yaml:"sort_alphabetically"`
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	Level string `yaml:"level"`
	// File is the log destination; "-" means stderr, empty means the default state dir.
	File string `yaml:"file,omitempty"`
}

// NotificationsConfig controls desktop notifications.
type NotificationsConfig struct {
	OnFailure bool `yaml:"on_failure"`
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: api.DefaultBaseURL,
			Timeout: api.DefaultTimeout,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the path to the configuration directory.
// Creates the directory if it doesn't exist.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// StateDir returns the directory for logs.
// Uses XDG_STATE_HOME or defaults to ~/.local/state/tasklist/
func StateDir() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		stateHome = filepath.Join(homeDir, ".local", "state")
	}

	dir := filepath.Join(stateHome, appName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return dir, nil
}

// Load reads the configuration from path, or from ConfigPath when path is empty.
// If the file doesn't exist, returns a default configuration.
// Environment overrides are applied after the file.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.Server.BaseURL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = api.DefaultBaseURL
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server.base_url %q: %w", c.Server.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server.base_url %q: scheme must be http or https", c.Server.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server.base_url %q: missing host", c.Server.BaseURL)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("invalid server.timeout %s: must not be negative", c.Server.Timeout)
	}
	return nil
}

// Template is the commented starter file written by `tasklist init`.
const Template = `# Task list configuration
# Location: ~/.config/tasklist/config.yaml

server:
  # Task collection endpoint (GET/POST on it, PUT/DELETE on <base_url>/<id>)
  base_url: "http://localhost:3005/task"
  # Request timeout, 0 disables it
  timeout: 30s

ui:
  # Interface and log language: en, ru (empty = detect from LANG)
  language: ""
  # Start with the list sorted by title
  sort_alphabetically: false

log:
  # debug, info, warn, error
  level: info
  # Log file; "-" logs to stderr. Empty uses ~/.local/state/tasklist/tasklist.log
  file: ""

notifications:
  # Raise a desktop notification when a remote operation fails
  on_failure: false
`
