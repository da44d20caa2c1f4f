// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jeranaias/playground-tui/internal/model"
	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// Feedback marks shown on an assistant message.
const (
	FeedbackNone = 0
	FeedbackUp   = 1
	FeedbackDown = -1
)

// MessageOptions controls RenderMessage.
type MessageOptions struct {
	Width         int
	Selected      bool
	Feedback      int
	Copied        bool
	CopiedBlock   int
	ShowTimestamp bool
	LineNumbers   bool
}

// RenderMessage renders one transcript entry. User messages are plain
// wrapped text aligned right; assistant messages go through RenderContent.
func RenderMessage(msg model.Message, theme *styles.Theme, md *MarkdownRenderer, opts MessageOptions) string {
	width := opts.Width
	if width < 24 {
		width = 24
	}

	header := theme.RoleLabel.Render(labelFor(msg.Role))
	if opts.ShowTimestamp && !msg.Timestamp.IsZero() {
		header += " " + theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	if msg.IsUser() {
		text := wordwrap.String(strings.TrimSpace(msg.Content), width*3/4)
		bubble := theme.UserBubble.Render(text)
		return lipgloss.JoinVertical(lipgloss.Right,
			lipgloss.PlaceHorizontal(width, lipgloss.Right, header),
			lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
	}

	switch opts.Feedback {
	case FeedbackUp:
		header += " " + theme.SuccessStyle.Render("[+]")
	case FeedbackDown:
		header += " " + theme.ErrorStyle.Render("[-]")
	}
	if opts.Copied {
		header += " " + theme.CodeCopied.Render("copied!")
	}

	inner := width - 4
	body := RenderContent(msg.Content, theme, md, ContentOptions{
		Width:       inner,
		LineNumbers: opts.LineNumbers,
		CopiedBlock: opts.CopiedBlock,
	})
	style := theme.AssistantBubble.Copy().Width(width - 2)
	if opts.Selected {
		style = style.BorderForeground(styles.SelectionBorder)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, style.Render(body))
}

func labelFor(r model.Role) string {
	switch r {
	case model.RoleUser:
		return "you"
	case model.RoleAssistant:
		return "assistant"
	default:
		return r.DisplayName()
	}
}
