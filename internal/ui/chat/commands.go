// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/playground-tui/internal/export"
	"github.com/jeranaias/playground-tui/internal/session"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SubmitCmd runs an accepted request off the event loop under ctx.
// timeout <= 0 leaves the deadline to the HTTP client.
func SubmitCmd(ctx context.Context, ctrl *session.Controller, req session.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return ChatResultMsg{Result: ctrl.Run(ctx, req)}
	}
}

// FeedbackCmd sends a thumbs up/down for the message at index.
func FeedbackCmd(ctx context.Context, ctrl *session.Controller, index int, positive bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		err := ctrl.SubmitFeedback(ctx, index, positive)
		return FeedbackSentMsg{Index: index, Positive: positive, Err: err}
	}
}

// ExportCmd writes doc with the exporter for format into dir.
func ExportCmd(doc export.Document, format, dir string) tea.Cmd {
	return func() tea.Msg {
		opts := export.DefaultOptions()
		opts.OutputDir = dir
		exp, err := export.ForFormat(format, opts)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		content, err := exp.Export(doc)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path, err := export.ToFile(doc, exp, opts)
		return ExportDoneMsg{Path: path, Content: content, Err: err}
	}
}
