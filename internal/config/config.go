// Package config loads and validates the logtap TOML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"logtap/internal/syslog"
)

//go:embed sample_config.toml
var sampleConfig string

// Filter names one suppressed (brand, severity) pair.
type Filter struct {
	Brand    string `toml:"brand"`
	Severity string `toml:"severity"`
}

// Logging contains emitter and registry configuration.
type Logging struct {
	Facility          string   `toml:"facility"`
	ConsoleEcho       bool     `toml:"console_echo"`
	BacktraceCapacity int      `toml:"backtrace_capacity"`
	Disabled          []Filter `toml:"disabled"`
}

// Journal contains audit journal configuration.
type Journal struct {
	Dir           string `toml:"dir"`
	RetentionDays int    `toml:"retention_days"`
	MinFreeMB     int    `toml:"min_free_mb"`
}

// Config is the root configuration document.
type Config struct {
	Logging Logging `toml:"logging"`
	Journal Journal `toml:"journal"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: Logging{
			Facility:          "user",
			BacktraceCapacity: 100,
		},
		Journal: Journal{
			RetentionDays: 30,
			MinFreeMB:     64,
		},
	}
}

// Sample returns the annotated sample configuration document.
func Sample() string {
	return sampleConfig
}

// DefaultConfigPath returns the conventional per-user config location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "logtap", "config.toml"), nil
}

// Load reads the configuration at path, falling back to DefaultConfigPath
// when path is empty and to Default when no file exists.
func Load(path string) (*Config, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		resolved, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		trimmed = resolved
	}

	cfg := Default()
	data, err := os.ReadFile(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", trimmed, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", trimmed, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", trimmed, err)
	}
	return &cfg, nil
}

// Validate checks the document for values the runtime cannot honor.
func (c *Config) Validate() error {
	if _, err := syslog.ParseFacility(c.Logging.Facility); err != nil {
		return err
	}
	if c.Logging.BacktraceCapacity < 0 {
		return fmt.Errorf("backtrace_capacity: must not be negative")
	}
	for _, filter := range c.Logging.Disabled {
		if strings.TrimSpace(filter.Brand) == "" {
			return fmt.Errorf("disabled filter: brand required")
		}
		if _, err := syslog.ParseSeverity(filter.Severity); err != nil {
			return err
		}
	}
	if c.Journal.RetentionDays < 0 {
		return fmt.Errorf("retention_days: must not be negative")
	}
	if c.Journal.MinFreeMB < 0 {
		return fmt.Errorf("min_free_mb: must not be negative")
	}
	return nil
}

// Facility returns the parsed non-audit facility.
func (c *Config) Facility() syslog.Facility {
	facility, err := syslog.ParseFacility(c.Logging.Facility)
	if err != nil {
		return syslog.FacilityUser
	}
	return facility
}

// JournalPath returns the journal file location, or empty when journaling is
// disabled.
func (c *Config) JournalPath() string {
	dir := strings.TrimSpace(c.Journal.Dir)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "audit.log")
}
