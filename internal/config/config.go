// Package config provides persistent configuration for solat.
//
// Configuration is stored as TOML at ~/.config/solat/config.toml
// (XDG-compliant). The merge priority is: CLI flags > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

const (
	configDirName  = "solat"
	configFileName = "config.toml"

	// DefaultZone is used when neither a flag, the cache nor the config file
	// names a zone.
	DefaultZone = "KTN01"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"zone",
	"timezone",
	"time_format",
	"muted",
	"tray",
	"cache_dir",
	"api_base_url",
	"log_level",
}

var zonePattern = regexp.MustCompile(`^[A-Za-z]{3}[0-9]{2}$`)

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults).
type Config struct {
	Zone       string `toml:"zone,omitempty"`
	Timezone   string `toml:"timezone,omitempty"`    // IANA name, e.g. "Asia/Kuala_Lumpur"
	TimeFormat string `toml:"time_format,omitempty"` // "12h" or "24h"
	Muted      *bool  `toml:"muted,omitempty"`       // pointer so we can distinguish "not set" from false
	Tray       *bool  `toml:"tray,omitempty"`
	CacheDir   string `toml:"cache_dir,omitempty"`
	APIBaseURL string `toml:"api_base_url,omitempty"`
	LogLevel   string `toml:"log_level,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	muted := false
	tray := false
	return Config{
		Zone:       DefaultZone,
		Timezone:   "Asia/Kuala_Lumpur",
		TimeFormat: "24h",
		Muted:      &muted,
		Tray:       &tray,
		LogLevel:   "info",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid TOML, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path. A leading "~" is
// expanded to the home directory.
func LoadFrom(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "zone":
		if !zonePattern.MatchString(value) {
			return fmt.Errorf("invalid zone %q: expected a code like KTN01", value)
		}
		c.Zone = strings.ToUpper(value)
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "muted", "tray":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: must be true or false", key, value)
		}
		if key == "muted" {
			c.Muted = &v
		} else {
			c.Tray = &v
		}
	case "cache_dir":
		c.CacheDir = value
	case "api_base_url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid api_base_url %q: must be an http(s) URL", value)
		}
		c.APIBaseURL = strings.TrimRight(value, "/")
	case "log_level":
		if _, err := zerolog.ParseLevel(strings.ToLower(value)); err != nil || value == "" {
			return fmt.Errorf("invalid log_level %q: must be one of trace, debug, info, warn, error", value)
		}
		c.LogLevel = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "zone":
		return c.Zone, nil
	case "timezone":
		return c.Timezone, nil
	case "time_format":
		return c.TimeFormat, nil
	case "muted":
		return formatBool(c.Muted), nil
	case "tray":
		return formatBool(c.Tray), nil
	case "cache_dir":
		return c.CacheDir, nil
	case "api_base_url":
		return c.APIBaseURL, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// MutedOrDefault returns the muted value, falling back to the given default.
func (c *Config) MutedOrDefault(def bool) bool {
	if c.Muted != nil {
		return *c.Muted
	}
	return def
}

// TrayOrDefault returns the tray value, falling back to the given default.
func (c *Config) TrayOrDefault(def bool) bool {
	if c.Tray != nil {
		return *c.Tray
	}
	return def
}

// Location loads the configured timezone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GoTimeFormat returns the Go layout for time_format.
func (c *Config) GoTimeFormat() string {
	if c.TimeFormat == "12h" {
		return "3:04:05 PM"
	}
	return "15:04:05"
}

// ExpandPath expands a leading "~" to the home directory.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return trimmed, nil
}
