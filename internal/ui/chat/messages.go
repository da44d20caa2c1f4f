// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/playground-tui/internal/session"
)

// =============================================================================
// REQUEST MESSAGES
// =============================================================================

// ChatResultMsg carries the outcome of a submitted prompt.
type ChatResultMsg struct {
	Result session.Result
}

// FeedbackSentMsg reports that a feedback event was handed to the backend.
// Delivery failures are logged by the controller, not reported here.
type FeedbackSentMsg struct {
	Index    int
	Positive bool
	Err      error
}

// =============================================================================
// SHARE MESSAGES
// =============================================================================

// ExportDoneMsg reports the result of a share/export.
type ExportDoneMsg struct {
	Path    string
	Content []byte
	Err     error
}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusMsg replaces the panel's transient status line.
type StatusMsg string
