// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// LoadDotEnv loads a .env file from the working directory, if any.
// Variables already present in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PLAYGROUND_API_URL: overrides api.base_url
//   - PLAYGROUND_TIMEOUT: overrides api.timeout_secs
//   - PLAYGROUND_MODEL: overrides defaults.model
//   - PLAYGROUND_AGENT_TYPE: overrides defaults.agent_type
//   - PLAYGROUND_THEME: overrides ui.theme
//   - PLAYGROUND_DB: overrides storage.path
//   - PLAYGROUND_LOG_LEVEL: overrides logging.level
//   - PLAYGROUND_LOG_FILE: overrides logging.file
//   - PLAYGROUND_ADDR: overrides server.addr
//   - PLAYGROUND_JWT_SECRET: overrides server.jwt_secret
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PLAYGROUND_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("PLAYGROUND_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("PLAYGROUND_MODEL"); v != "" {
		c.Defaults.Model = v
	}
	if v := os.Getenv("PLAYGROUND_AGENT_TYPE"); v != "" {
		c.Defaults.AgentType = v
	}
	if v := os.Getenv("PLAYGROUND_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	if v := os.Getenv("PLAYGROUND_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("PLAYGROUND_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("PLAYGROUND_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("PLAYGROUND_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PLAYGROUND_JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
}
