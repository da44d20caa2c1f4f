// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jeranaias/playground-tui/internal/config"
	"github.com/jeranaias/playground-tui/internal/model"
)

var (
	ErrUnknownModel = errors.New("unknown model")
	ErrUnknownAgent = errors.New("unknown agent type")
	ErrUnknownRole  = errors.New("unknown role")
	ErrOutOfRange   = errors.New("value out of range")
	ErrNotANumber   = errors.New("not a number")
)

// Field names accepted by SetFromString.
const (
	FieldTemperature = "temperature"
	FieldTopP        = "top_p"
	FieldTopK        = "top_k"
)

// Settings holds the generation parameters read by the chat session at
// submit time. It is a plain value: copy it freely.
type Settings struct {
	Model       string
	AgentType   string
	Temperature float64
	TopP        float64
	TopK        float64

	// SystemRole and SystemContent are the drawer's "Messages" fieldset.
	SystemRole    model.Role
	SystemContent string
}

// Default returns the playground's out-of-the-box settings.
func Default() Settings {
	return Settings{
		Model:       "gpt-4o",
		AgentType:   "simple",
		Temperature: 0.7,
		TopP:        0.7,
		TopK:        0,
		SystemRole:  model.RoleSystem,
	}
}

// FromConfig seeds settings from the [defaults] config section. Values
// the catalogs do not know fall back to Default.
func FromConfig(cfg config.DefaultsConfig) Settings {
	s := Default()
	_ = s.SetModel(cfg.Model)
	_ = s.SetAgentType(cfg.AgentType)
	_ = s.SetTemperature(cfg.Temperature)
	_ = s.SetTopP(cfg.TopP)
	_ = s.SetTopK(cfg.TopK)
	return s
}

// =============================================================================
// SETTERS
// =============================================================================

// SetModel selects a model from the catalog.
func (s *Settings) SetModel(id string) error {
	if _, ok := LookupModel(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	s.Model = id
	return nil
}

// SetAgentType selects an agent type from the catalog.
func (s *Settings) SetAgentType(id string) error {
	if _, ok := LookupAgent(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAgent, id)
	}
	s.AgentType = id
	return nil
}

// SetTemperature sets the sampling temperature in [0, 2].
func (s *Settings) SetTemperature(v float64) error {
	if !finite(v) || v < 0 || v > 2 {
		return fmt.Errorf("%w: temperature %.2f not in [0, 2]", ErrOutOfRange, v)
	}
	s.Temperature = v
	return nil
}

// SetTopP sets nucleus sampling in [0, 1].
func (s *Settings) SetTopP(v float64) error {
	if !finite(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: top_p %.2f not in [0, 1]", ErrOutOfRange, v)
	}
	s.TopP = v
	return nil
}

// SetTopK sets top-k sampling. Zero disables it.
func (s *Settings) SetTopK(v float64) error {
	if !finite(v) || v < 0 {
		return fmt.Errorf("%w: top_k %.2f is negative or not finite", ErrOutOfRange, v)
	}
	s.TopK = v
	return nil
}

// finite rejects NaN and the infinities, which strconv accepts but JSON
// cannot encode.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SetSystemMessage sets the drawer's role/content pair.
func (s *Settings) SetSystemMessage(role string, content string) error {
	r, ok := model.ParseRole(role)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	s.SystemRole = r
	s.SystemContent = content
	return nil
}

// SetFromString parses a numeric drawer field. Blank input leaves the
// value unchanged.
func (s *Settings) SetFromString(field, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrNotANumber, field, raw)
	}
	switch field {
	case FieldTemperature:
		return s.SetTemperature(v)
	case FieldTopP:
		return s.SetTopP(v)
	case FieldTopK:
		return s.SetTopK(v)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
}

// CycleModel moves to the next (or previous) model in the catalog.
func (s *Settings) CycleModel(delta int) {
	s.Model = cycle(ModelIDs(), s.Model, delta)
}

// CycleAgentType moves to the next (or previous) agent type.
func (s *Settings) CycleAgentType(delta int) {
	s.AgentType = cycle(AgentIDs(), s.AgentType, delta)
}

// CycleSystemRole steps through system, user and assistant.
func (s *Settings) CycleSystemRole(delta int) {
	roles := []string{string(model.RoleSystem), string(model.RoleUser), string(model.RoleAssistant)}
	s.SystemRole = model.Role(cycle(roles, string(s.SystemRole), delta))
}

func cycle(ids []string, current string, delta int) string {
	if len(ids) == 0 {
		return current
	}
	idx := 0
	for i, id := range ids {
		if id == current {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(ids) + len(ids)) % len(ids)
	return ids[idx]
}

// =============================================================================
// REQUEST VIEW
// =============================================================================

// Metadata returns the sampling parameters as request metadata. The
// backend echoes this map in its response.
func (s Settings) Metadata() map[string]any {
	md := map[string]any{
		"temperature": s.Temperature,
		"top_p":       s.TopP,
		"top_k":       s.TopK,
	}
	if strings.TrimSpace(s.SystemContent) != "" {
		md["system_message"] = map[string]string{
			"role":    string(s.SystemRole),
			"content": s.SystemContent,
		}
	}
	return md
}

// AgentDescription returns the description of the selected agent type.
func (s Settings) AgentDescription() string {
	if a, ok := LookupAgent(s.AgentType); ok {
		return a.Description
	}
	return ""
}
