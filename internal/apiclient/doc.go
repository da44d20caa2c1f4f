// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apiclient is the HTTP client for the chatbot backend.
//
// It covers the chat and feedback endpoints used by the session
// controller and the identity endpoints (/token, /register, /users/me)
// used by the auth gate. Authenticated calls pull a bearer token from a
// TokenSource on every request, so a logout takes effect immediately.
//
// Non-2xx responses become *APIError; the FastAPI "detail" field is
// surfaced as the error message.
//
// # Usage
//
//	client := apiclient.New(cfg.API.BaseURL, gate).
//	    WithTimeout(cfg.Timeout()).
//	    WithLogger(logger).
//	    WithFeedbackLimit(cfg.API.FeedbackPerSec, 3)
//
//	resp, err := client.Chat(ctx, apiclient.ChatRequest{
//	    Prompt:    "Hello",
//	    AgentType: "simple",
//	    Model:     "gpt-4o",
//	})
package apiclient
