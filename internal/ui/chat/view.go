// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/ui/components"
)

// Counter thresholds, as fractions of the prompt limit.
const (
	counterWarnAt   = 0.8
	counterDangerAt = 0.95
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the transcript above the input area.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderInput(),
		m.renderCounter(),
	)
}

// refresh rebuilds the viewport content. Pass bottom to follow the newest
// message.
func (m *Model) refresh(bottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	if bottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderTranscript() string {
	msgs := m.ctrl.Messages()
	width := m.viewport.Width - 2

	if len(msgs) == 0 && !m.busy.Active() {
		return lipgloss.Place(m.viewport.Width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center,
			m.theme.EmptyState.Render("Start a conversation\n\nAsk anything, or open ctrl+o to pick a model and agent."))
	}

	parts := make([]string, 0, len(msgs)+1)
	for i, msg := range msgs {
		opts := components.MessageOptions{
			Width:         width,
			Selected:      m.focus == focusTranscript && i == m.selected,
			Feedback:      m.feedback[i],
			Copied:        m.clip.Copied(messageKey(msg)),
			CopiedBlock:   -1,
			ShowTimestamp: m.opts.ShowTimestamps,
			LineNumbers:   m.opts.LineNumbers,
		}
		if msg.IsAssistant() {
			for b := range components.CodeBlocks(msg.Content) {
				if m.clip.Copied(blockKey(msg, b)) {
					opts.CopiedBlock = b
				}
			}
		}
		parts = append(parts, components.RenderMessage(msg, m.theme, m.md, opts))
	}

	// The busy indicator stands in for the pending reply.
	if _, ok := m.ctrl.Pending(); ok && m.busy.Active() {
		parts = append(parts, m.busy.View())
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer.Copy().Width(max(m.width-2, 10))
	if m.focus == focusTranscript {
		style = style.BorderForeground(m.theme.MutedStyle.GetForeground())
	}
	return style.Render(m.input.View())
}

func (m Model) renderCounter() string {
	n := utf8.RuneCountInString(m.input.Value())
	text := fmt.Sprintf("%d/%d", n, apiclient.MaxPromptRunes)

	style := m.theme.CharCount
	ratio := float64(n) / float64(apiclient.MaxPromptRunes)
	switch {
	case ratio >= counterDangerAt:
		style = m.theme.CharCountDanger
	case ratio >= counterWarnAt:
		style = m.theme.CharCountWarning
	}

	left := ""
	if m.status != "" {
		left = m.theme.MutedStyle.Render(m.status)
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(text)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + style.Render(text)
}
