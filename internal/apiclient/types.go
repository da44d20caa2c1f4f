// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apiclient

import (
	"bytes"
	"encoding/json"

	"github.com/jeranaias/playground-tui/internal/model"
)

// =============================================================================
// CHAT
// =============================================================================

// HistoryItem is one prior transcript entry as sent to the backend.
type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryFrom converts transcript messages to the wire format.
func HistoryFrom(msgs []model.Message) []HistoryItem {
	out := make([]HistoryItem, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, HistoryItem{Role: m.Role.String(), Content: m.Content})
	}
	return out
}

// ChatRequest is the body of POST /api/v1/chatbot/chat.
type ChatRequest struct {
	Prompt    string         `json:"prompt"`
	AgentType string         `json:"agent_type"`
	Model     string         `json:"model,omitempty"`
	History   []HistoryItem  `json:"history"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ChatResponse is the backend's reply. Metadata echoes the request's.
type ChatResponse struct {
	Response string         `json:"response"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FeedbackRequest is the body of POST /api/v1/chatbot/feedback.
// MessageID is the message's position in the transcript.
type FeedbackRequest struct {
	MessageID  int  `json:"message_id"`
	IsPositive bool `json:"is_positive"`
}

// =============================================================================
// IDENTITY
// =============================================================================

// UserID is a user identifier. The backend renders it as a string but
// numeric IDs are accepted too.
type UserID string

// UnmarshalJSON accepts "7" and 7.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = UserID(n.String())
	return nil
}

// User is the identity returned by GET /users/me.
type User struct {
	ID       UserID `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Token is the response of POST /token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ErrorBody is the FastAPI-style error envelope ({"detail": ...}).
type ErrorBody struct {
	Detail string `json:"detail"`
}
