// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_AppendPreservesOrder(t *testing.T) {
	tr := NewTranscript()
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, -1, tr.LastAssistant())

	assert.Equal(t, 0, tr.Append(NewUserMessage("Hello")))
	assert.Equal(t, 1, tr.Append(NewAssistantMessage("Hi there")))
	assert.Equal(t, 2, tr.Append(NewUserMessage("Again")))

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, 1, tr.LastAssistant())

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, "Again", last.Content)
}

func TestTranscript_MessagesIsACopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("original"))

	msgs := tr.Messages()
	msgs[0].Content = "mutated"

	got, _ := tr.At(0)
	assert.Equal(t, "original", got.Content)
}

func TestTranscript_AtOutOfRange(t *testing.T) {
	tr := NewTranscript()
	_, ok := tr.At(0)
	assert.False(t, ok)
	_, ok = tr.At(-1)
	assert.False(t, ok)
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	a := NewUserMessage("x")
	b := NewUserMessage("x")
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("assistant")
	assert.True(t, ok)
	assert.Equal(t, "Assistant", r.DisplayName())

	_, ok = ParseRole("tool")
	assert.False(t, ok)
}
