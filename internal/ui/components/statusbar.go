// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// Shortcut is a key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: model and agent badges, a transient
// message and key hints.
type StatusBar struct {
	Width     int
	Model     string
	AgentType string
	Busy      bool
	Message   string
	Shortcuts []Shortcut
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := s.theme

	var left []string
	if s.Model != "" {
		left = append(left, t.StatusBadge.Render(s.Model))
	}
	if s.AgentType != "" {
		left = append(left, t.ShortcutDesc.Render(s.AgentType))
	}
	if s.Busy {
		left = append(left, t.WarningStyle.Render("busy"))
	}
	if s.Message != "" {
		left = append(left, s.Message)
	}
	leftView := strings.Join(left, " ")

	var hints []string
	for _, sc := range s.Shortcuts {
		hints = append(hints, t.ShortcutKey.Render(sc.Key)+" "+t.ShortcutDesc.Render(sc.Desc))
	}
	rightView := strings.Join(hints, "  ")

	width := s.Width - 2
	for len(hints) > 0 && lipgloss.Width(leftView)+lipgloss.Width(rightView)+1 > width {
		hints = hints[:len(hints)-1]
		rightView = strings.Join(hints, "  ")
	}
	gap := width - lipgloss.Width(leftView) - lipgloss.Width(rightView)
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Copy().Width(s.Width).Render(leftView + strings.Repeat(" ", gap) + rightView)
}
