// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// playground client and its development backend.
//
// TOML is the primary format; YAML and JSON files are accepted when the
// path carries a .yaml/.yml or .json extension.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Backend URL, timeout and feedback rate
//   - DefaultsConfig: Initial model, agent type and sampling values
//   - ServerConfig: Settings for the local development backend
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PLAYGROUND_*), including a .env file
//   - --config path, or ~/.playground/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Reload on edit:
//
//	go config.Watch(ctx, path, 0, func(cfg *config.Config, err error) { ... })
package config
