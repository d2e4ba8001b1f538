// Package config handles configuration loading and validation for catalog.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/catalog/internal/core/fetch"
	"github.com/colonyops/catalog/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	History  HistoryConfig  `yaml:"history"`
	Database DatabaseConfig `yaml:"database"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// SourceConfig describes where the item list is fetched from.
type SourceConfig struct {
	BaseURL   string   `yaml:"base_url"`
	Path      string   `yaml:"path"`
	Timeout   Duration `yaml:"timeout"`
	UserAgent string   `yaml:"user_agent"`
	// RateLimit is the minimum spacing between two requests. Zero disables it.
	RateLimit Duration `yaml:"rate_limit"`
}

// RefreshConfig controls automatic refreshes after startup.
type RefreshConfig struct {
	Interval Duration `yaml:"interval"` // 0 disables periodic refresh
}

// HistoryConfig controls the refresh attempt log.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
	Retain  int  `yaml:"retain"` // 0 keeps every entry
}

// DatabaseConfig holds SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// TUIConfig holds interactive view preferences.
type TUIConfig struct {
	Theme     string `yaml:"theme"`
	ExpandAll bool   `yaml:"expand_all"` // start with every list expanded
	// RememberExpanded restores the lists that were open when the TUI last exited.
	RememberExpanded bool `yaml:"remember_expanded"`
}

// Minimum periodic refresh interval accepted by Validate.
const minRefreshInterval = time.Second

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			BaseURL:   fetch.DefaultBaseURL,
			Path:      fetch.DefaultPath,
			Timeout:   Duration(fetch.DefaultTimeout),
			UserAgent: fetch.DefaultUserAgent,
		},
		History: HistoryConfig{
			Enabled: true,
			Retain:  200,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		TUI: TUIConfig{
			Theme:            styles.DefaultTheme,
			RememberExpanded: true,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = defaults.Source.BaseURL
	}
	if c.Source.Path == "" {
		c.Source.Path = defaults.Source.Path
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = defaults.Source.Timeout
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = defaults.Source.UserAgent
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout cannot be negative")
	}

	if c.Source.RateLimit < 0 {
		return fmt.Errorf("source.rate_limit cannot be negative")
	}

	if iv := c.Refresh.Interval.Std(); iv < 0 || (iv > 0 && iv < minRefreshInterval) {
		return fmt.Errorf("refresh.interval must be 0 or at least %s, got %s", minRefreshInterval, iv)
	}

	if c.History.Retain < 0 {
		return fmt.Errorf("history.retain cannot be negative")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns must be between 0 and max_open_conns")
	}

	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not one of %s", c.TUI.Theme, strings.Join(styles.ThemeNames(), ", "))
	}

	return nil
}

// Marshal encodes the configuration as YAML, as written by `catalog init`.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "catalog.log")
}
