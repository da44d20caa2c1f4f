// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered, append-only message history of one chat
// session. It lives in memory only.
type Transcript struct {
	ID        string
	CreatedAt time.Time
	messages  []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// Append adds a message to the end of the transcript and returns its index.
func (t *Transcript) Append(msg Message) int {
	t.messages = append(t.messages, msg)
	return len(t.messages) - 1
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// At returns the message at index i.
func (t *Transcript) At(i int) (Message, bool) {
	if i < 0 || i >= len(t.messages) {
		return Message{}, false
	}
	return t.messages[i], true
}

// Last returns the most recent message.
func (t *Transcript) Last() (Message, bool) {
	return t.At(len(t.messages) - 1)
}

// LastAssistant returns the index of the most recent assistant message, or -1.
func (t *Transcript) LastAssistant() int {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].IsAssistant() {
			return i
		}
	}
	return -1
}

// Messages returns a copy of all messages in insertion order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// UpdatedAt returns the timestamp of the last message, or CreatedAt when empty.
func (t *Transcript) UpdatedAt() time.Time {
	if last, ok := t.Last(); ok {
		return last.Timestamp
	}
	return t.CreatedAt
}
