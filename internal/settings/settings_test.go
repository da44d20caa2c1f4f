// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/playground-tui/internal/config"
	"github.com/jeranaias/playground-tui/internal/model"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, "gpt-4o", s.Model)
	assert.Equal(t, "simple", s.AgentType)
	assert.Equal(t, "Basic conversational agent.", s.AgentDescription())
}

func TestSetters_RejectUnknownAndOutOfRange(t *testing.T) {
	s := Default()

	assert.ErrorIs(t, s.SetModel("gpt-5-ultra"), ErrUnknownModel)
	assert.Equal(t, "gpt-4o", s.Model, "rejected value leaves state unchanged")

	assert.ErrorIs(t, s.SetAgentType("swarm"), ErrUnknownAgent)
	assert.ErrorIs(t, s.SetTemperature(2.5), ErrOutOfRange)
	assert.ErrorIs(t, s.SetTopP(-0.1), ErrOutOfRange)
	assert.ErrorIs(t, s.SetTopK(-1), ErrOutOfRange)
	assert.ErrorIs(t, s.SetSystemMessage("tool", "x"), ErrUnknownRole)

	require.NoError(t, s.SetModel("gemini-1.5-pro"))
	require.NoError(t, s.SetAgentType("multi_step"))
	assert.Equal(t, "gemini-1.5-pro", s.Model)
	assert.Equal(t, "Breaks down complex tasks into subtasks.", s.AgentDescription())
}

func TestSetFromString(t *testing.T) {
	s := Default()

	require.NoError(t, s.SetFromString(FieldTopP, "0.9"))
	require.NoError(t, s.SetFromString(FieldTopK, " 40 "))
	require.NoError(t, s.SetFromString(FieldTemperature, ""), "blank keeps value")

	assert.Equal(t, 0.9, s.TopP)
	assert.Equal(t, 40.0, s.TopK)
	assert.Equal(t, 0.7, s.Temperature)

	assert.ErrorIs(t, s.SetFromString(FieldTopP, "abc"), ErrNotANumber)
	assert.ErrorIs(t, s.SetFromString(FieldTopP, "1.2"), ErrOutOfRange)
}

func TestSetFromString_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		field string
		raw   string
	}{
		{FieldTemperature, "NaN"},
		{FieldTemperature, "inf"},
		{FieldTopP, "nan"},
		{FieldTopP, "-inf"},
		{FieldTopK, "inf"},
		{FieldTopK, "+Inf"},
		{FieldTopK, "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.raw, func(t *testing.T) {
			s := Default()
			assert.ErrorIs(t, s.SetFromString(tt.field, tt.raw), ErrOutOfRange)
			assert.Equal(t, Default(), s, "rejected input leaves settings unchanged")
		})
	}
}

func TestCycle(t *testing.T) {
	s := Default()

	s.CycleAgentType(1)
	assert.Equal(t, "multi_step", s.AgentType, "wraps past the end")
	s.CycleAgentType(-1)
	assert.Equal(t, "simple", s.AgentType)

	s.CycleModel(1)
	assert.Equal(t, "gpt-4o-mini", s.Model)

	s.CycleSystemRole(1)
	assert.Equal(t, model.RoleUser, s.SystemRole)
}

func TestFromConfig_FallsBackOnUnknown(t *testing.T) {
	s := FromConfig(config.DefaultsConfig{Model: "nope", AgentType: "prompt_optim", Temperature: 1.1, TopP: 5})
	assert.Equal(t, "gpt-4o", s.Model)
	assert.Equal(t, "prompt_optim", s.AgentType)
	assert.Equal(t, 1.1, s.Temperature)
	assert.Equal(t, 0.7, s.TopP)
}

func TestMetadata(t *testing.T) {
	s := Default()
	md := s.Metadata()
	assert.NotContains(t, md, "system_message")

	require.NoError(t, s.SetSystemMessage("system", "You are a pirate."))
	md = s.Metadata()
	assert.Equal(t, map[string]string{"role": "system", "content": "You are a pirate."}, md["system_message"])
	assert.Equal(t, 0.7, md["temperature"])
}
