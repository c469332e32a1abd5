// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ollamamate configuration.
type Config struct {
	// DefaultModel is selected at startup when the server lists it.
	DefaultModel string `toml:"default_model"`

	// Server is the Ollama server configuration.
	Server ServerConfig `toml:"server"`

	// Export configures transcript export output.
	Export ExportConfig `toml:"export"`

	// UI configures the display layer.
	UI UIConfig `toml:"ui"`
}

// ServerConfig contains Ollama server connection configuration.
type ServerConfig struct {
	// Host is the Ollama base URL.
	// Uses an explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows.
	Host string `toml:"host"`

	// StreamTimeoutSecs bounds a whole streaming generation in seconds.
	StreamTimeoutSecs int `toml:"stream_timeout_secs"`
}

// StreamTimeout returns the streaming timeout as a duration.
func (s ServerConfig) StreamTimeout() time.Duration {
	return time.Duration(s.StreamTimeoutSecs) * time.Second
}

// ExportConfig contains transcript export configuration.
type ExportConfig struct {
	// Dir is the directory exported transcripts are written to.
	// Default: current working directory.
	Dir string `toml:"dir"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme selects the color theme: "dark", "light", or "auto".
	Theme string `toml:"theme"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "http://127.0.0.1:11434",
			StreamTimeoutSecs: 600,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the ollamamate configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ollamamate"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.ollamamate/config.toml, falling back to
// defaults when the file is absent. Environment overrides are applied last,
// then the result is validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		// No resolvable home directory; run on defaults.
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path. A missing
// file is not an error; a malformed or invalid one is.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		fillDefaults(cfg)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Server.Host == "" {
		cfg.Server.Host = defaults.Server.Host
	}
	if cfg.Server.StreamTimeoutSecs == 0 {
		cfg.Server.StreamTimeoutSecs = defaults.Server.StreamTimeoutSecs
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = defaults.Export.Dir
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file values.
func (c *Config) ApplyEnvOverrides() {
	if host := os.Getenv("OLLAMAMATE_HOST"); host != "" {
		c.Server.Host = host
	}
	if model := os.Getenv("OLLAMAMATE_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if dir := os.Getenv("OLLAMAMATE_EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to a TOML file at path.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# ollamamate configuration file")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
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

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Server.Host)
	if err != nil {
		errs = append(errs, ValidationError{
			Field:   "server.host",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "server.host",
			Message: fmt.Sprintf("invalid scheme '%s', must be http or https", u.Scheme),
		})
	} else if u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "server.host",
			Message: "missing host",
		})
	}

	if c.Server.StreamTimeoutSecs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.stream_timeout_secs",
			Message: "must be greater than zero",
		})
	}

	if c.UI.Theme != "" {
		validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
		if !validThemes[strings.ToLower(c.UI.Theme)] {
			errs = append(errs, ValidationError{
				Field:   "ui.theme",
				Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
