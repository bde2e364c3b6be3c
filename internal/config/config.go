// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for neuralcode.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/neuralcode/internal/model"
	"github.com/jeranaias/neuralcode/internal/util"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the main configuration structure.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	Backend BackendConfig  `toml:"backend" json:"backend" yaml:"backend"`
	Chat    model.Settings `toml:"chat" json:"chat" yaml:"chat"`
	UI      UIConfig       `toml:"ui" json:"ui" yaml:"ui"`
	Server  ServerConfig   `toml:"server" json:"server" yaml:"server"`
	Archive ArchiveConfig  `toml:"archive" json:"archive" yaml:"archive"`
}

// BackendConfig selects the chat backend.
type BackendConfig struct {
	// Driver is "ollama" (built-in HTTP client) or "langchain"
	Driver string `toml:"driver" json:"driver" yaml:"driver"`

	// URL is the Ollama server address
	URL string `toml:"url" json:"url" yaml:"url"`
}

// UIConfig contains display preferences for the TUI.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" json:"theme" yaml:"theme"`

	// ShowTimestamps shows message times in the conversation
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps" yaml:"show_timestamps"`

	// LogFile receives log output while the TUI owns the terminal
	LogFile string `toml:"log_file" json:"log_file" yaml:"log_file"`
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	Port int `toml:"port" json:"port" yaml:"port"`

	// RateLimit is requests per second per client; Burst is the bucket size
	RateLimit float64 `toml:"rate_limit" json:"rate_limit" yaml:"rate_limit"`
	Burst     int     `toml:"burst" json:"burst" yaml:"burst"`
}

// ArchiveConfig configures the optional transcript archive.
type ArchiveConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Backend: BackendConfig{
			Driver: "ollama",
			URL:    "http://127.0.0.1:11434",
		},
		Chat: model.DefaultSettings(),
		UI: UIConfig{
			Theme: "auto",
		},
		Server: ServerConfig{
			Port:      8787,
			RateLimit: 5,
			Burst:     10,
		},
	}
}

// Settings returns the chat settings the session starts with.
func (c *Config) Settings() model.Settings {
	return c.Chat
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the configuration directory. NEURALCODE_HOME overrides
// the default of ~/.neuralcode.
func ConfigDir() (string, error) {
	if dir := os.Getenv("NEURALCODE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".neuralcode"), nil
}

// DefaultPath returns the path of the TOML config file.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// FindPath returns the first existing config file in the config directory,
// trying config.toml, config.yaml, config.yml and config.json in that order.
// It returns "" when none exists.
func FindPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml", "config.json"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// resolvePaths fills in derived paths that default to the config directory.
func (c *Config) resolvePaths() {
	dir, err := ConfigDir()
	if err != nil {
		return
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = filepath.Join(dir, "neuralcode.log")
	}
	if c.Archive.Path == "" {
		c.Archive.Path = filepath.Join(dir, "archive.db")
	}
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config directory, falling back to
// defaults when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := FindPath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := Default()
		return finish(cfg)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file with full validation.
// The format is chosen by extension; anything unrecognised is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := decode(cfg, path, data); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finish(cfg)
}

func decode(cfg *Config, path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		_, err := toml.Decode(string(data), cfg)
		return err
	}
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills empty fields that have no meaningful zero value.
// Chat settings are left alone: zero temperature is valid.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Backend.Driver == "" {
		c.Backend.Driver = d.Backend.Driver
	}
	if c.Backend.URL == "" {
		c.Backend.URL = d.Backend.URL
	}
	if c.Chat.ModelID == "" {
		c.Chat.ModelID = d.Chat.ModelID
	}
	if c.Chat.MaxTokens == 0 {
		c.Chat.MaxTokens = d.Chat.MaxTokens
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = d.Server.RateLimit
	}
	if c.Server.Burst == 0 {
		c.Server.Burst = d.Server.Burst
	}
	c.resolvePaths()
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg as TOML to path atomically with 0600 permissions.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# neuralcode configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a single configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every section and returns all problems found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	validDrivers := map[string]bool{"ollama": true, "langchain": true}
	if !validDrivers[c.Backend.Driver] {
		errs = append(errs, ValidationError{
			Field:   "backend.driver",
			Message: fmt.Sprintf("invalid driver '%s', must be one of: ollama, langchain", c.Backend.Driver),
		})
	}

	if u, err := url.Parse(c.Backend.URL); err != nil {
		errs = append(errs, ValidationError{Field: "backend.url", Message: fmt.Sprintf("invalid URL: %v", err)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{Field: "backend.url", Message: "scheme must be http or https"})
	}

	if err := c.Chat.Validate(); err != nil {
		field := "chat"
		var se *model.SettingsError
		if errors.As(err, &se) {
			field = "chat." + se.Field
		}
		errs = append(errs, ValidationError{Field: field, Message: err.Error()})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("must be 1-65535, got %d", c.Server.Port),
		})
	}
	if c.Server.RateLimit <= 0 {
		errs = append(errs, ValidationError{Field: "server.rate_limit", Message: "must be positive"})
	}
	if c.Server.Burst < 1 {
		errs = append(errs, ValidationError{Field: "server.burst", Message: "must be at least 1"})
	}

	if c.Archive.Enabled && c.Archive.Path == "" {
		errs = append(errs, ValidationError{Field: "archive.path", Message: "required when the archive is enabled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("error encoding config: %v", err)
	}
	return buf.String()
}
