// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"strings"
)

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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = map[string]bool{"auto": true, "dark": true, "light": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate validates the configuration and returns ValidateErrors if any
// field is out of range.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout_secs", Message: "must not be negative"})
	}
	if c.API.FeedbackPerSec < 0 {
		errs = append(errs, ValidationError{Field: "api.feedback_per_sec", Message: "must not be negative"})
	}

	if c.Defaults.Temperature < 0 || c.Defaults.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "defaults.temperature",
			Message: fmt.Sprintf("%.2f out of range [0, 2]", c.Defaults.Temperature),
		})
	}
	if c.Defaults.TopP < 0 || c.Defaults.TopP > 1 {
		errs = append(errs, ValidationError{
			Field:   "defaults.top_p",
			Message: fmt.Sprintf("%.2f out of range [0, 1]", c.Defaults.TopP),
		})
	}
	if c.Defaults.TopK < 0 {
		errs = append(errs, ValidationError{Field: "defaults.top_k", Message: "must not be negative"})
	}

	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if c.UI.WordWrap < 20 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "must be at least 20"})
	}

	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	if c.Server.TokenTTLMins < 0 {
		errs = append(errs, ValidationError{Field: "server.token_ttl_mins", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
