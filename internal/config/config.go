// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/playground-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete playground configuration.
type Config struct {
	// API is the chatbot backend the client talks to.
	API APIConfig `toml:"api" json:"api" yaml:"api"`

	// Defaults seed the settings panel on startup.
	Defaults DefaultsConfig `toml:"defaults" json:"defaults" yaml:"defaults"`

	UI      UIConfig      `toml:"ui" json:"ui" yaml:"ui"`
	Storage StorageConfig `toml:"storage" json:"storage" yaml:"storage"`
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// Server configures the local development backend (playground serve).
	Server ServerConfig `toml:"server" json:"server" yaml:"server"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string `toml:"base_url" json:"base_url" yaml:"base_url"`

	// TimeoutSecs bounds every request. Zero means the default.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`

	// FeedbackPerSec limits feedback events sent to the backend.
	FeedbackPerSec float64 `toml:"feedback_per_sec" json:"feedback_per_sec" yaml:"feedback_per_sec"`
}

// DefaultsConfig holds the initial generation parameters.
type DefaultsConfig struct {
	Model       string  `toml:"model" json:"model" yaml:"model"`
	AgentType   string  `toml:"agent_type" json:"agent_type" yaml:"agent_type"`
	Temperature float64 `toml:"temperature" json:"temperature" yaml:"temperature"`
	TopP        float64 `toml:"top_p" json:"top_p" yaml:"top_p"`
	TopK        float64 `toml:"top_k" json:"top_k" yaml:"top_k"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	// Theme is "dark", "light" or "auto" (detect from the terminal).
	Theme           string `toml:"theme" json:"theme" yaml:"theme"`
	ShowSidebar     bool   `toml:"show_sidebar" json:"show_sidebar" yaml:"show_sidebar"`
	WordWrap        int    `toml:"word_wrap" json:"word_wrap" yaml:"word_wrap"`
	CodeLineNumbers bool   `toml:"code_line_numbers" json:"code_line_numbers" yaml:"code_line_numbers"`
}

// StorageConfig locates the local key/value store (token, theme).
type StorageConfig struct {
	Path string `toml:"path" json:"path" yaml:"path"`
}

// LoggingConfig controls the rotating log file.
type LoggingConfig struct {
	Level      string `toml:"level" json:"level" yaml:"level"`
	File       string `toml:"file" json:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days" yaml:"max_age_days"`
}

// ServerConfig configures the development backend.
type ServerConfig struct {
	Addr           string `toml:"addr" json:"addr" yaml:"addr"`
	JWTSecret      string `toml:"jwt_secret" json:"jwt_secret" yaml:"jwt_secret"`
	TokenTTLMins   int    `toml:"token_ttl_mins" json:"token_ttl_mins" yaml:"token_ttl_mins"`
	RequestTimeout int    `toml:"request_timeout_secs" json:"request_timeout_secs" yaml:"request_timeout_secs"`
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSecs:    120,
			FeedbackPerSec: 2,
		},
		Defaults: DefaultsConfig{
			Model:       "gpt-4o",
			AgentType:   "simple",
			Temperature: 0.7,
			TopP:        0.7,
			TopK:        0,
		},
		UI: UIConfig{
			Theme:           "auto",
			ShowSidebar:     true,
			WordWrap:        80,
			CodeLineNumbers: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			Addr:           ":8000",
			TokenTTLMins:   30,
			RequestTimeout: 60,
		},
	}
}

// Timeout returns the API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// TokenTTL returns the dev server's token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Server.TokenTTLMins) * time.Minute
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the playground configuration directory path.
// PLAYGROUND_HOME overrides the default of ~/.playground.
func ConfigDir() (string, error) {
	if dir := os.Getenv("PLAYGROUND_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".playground"), nil
}

// ConfigPath returns the path of the default TOML config file.
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
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default location.
// A missing file is not an error; defaults are used.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a TOML, YAML or JSON file.
// The format is picked from the extension; anything else is read as TOML.
// Environment overrides (including a .env file in the working directory)
// are applied after the file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := decodeFile(cfg, path); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	LoadDotEnv()
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read YAML file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML file: %w", err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read JSON file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON file: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("failed to decode TOML file: %w", err)
		}
	}
	return nil
}

// fillDefaults fills in any zero values that have no meaningful zero.
func (c *Config) fillDefaults() {
	d := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}
	if c.Defaults.Model == "" {
		c.Defaults.Model = d.Defaults.Model
	}
	if c.Defaults.AgentType == "" {
		c.Defaults.AgentType = d.Defaults.AgentType
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = d.UI.WordWrap
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = d.Logging.MaxSizeMB
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.TokenTTLMins == 0 {
		c.Server.TokenTTLMins = d.Server.TokenTTLMins
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = d.Server.RequestTimeout
	}
}

// resolvePaths places the store and log file under the config dir unless set.
func (c *Config) resolvePaths() error {
	if c.Storage.Path != "" && c.Logging.File != "" {
		return nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(dir, "playground.db")
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(dir, "logs", "playground.log")
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration as TOML to path with 0600 permissions.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# playground configuration file\n")
	sb.WriteString("# Generated by playground - edit with care\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String returns the config as TOML with the JWT secret redacted.
func (c *Config) String() string {
	safe := *c
	if safe.Server.JWTSecret != "" {
		safe.Server.JWTSecret = "[REDACTED]"
	}
	var sb strings.Builder
	_ = toml.NewEncoder(&sb).Encode(&safe)
	return sb.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
			cfg.fillDefaults()
			_ = cfg.resolvePaths()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
