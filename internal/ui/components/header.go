// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// Header is the dashboard title bar: the page title on the left, the
// settings, share and theme buttons on the right.
type Header struct {
	Title      string
	Width      int
	DrawerOpen bool
	Notice     string
	theme      *styles.Theme
}

// NewHeader creates a header titled "Playground".
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Title: "Playground", Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(w int) { h.Width = w }

// View renders the header.
func (h *Header) View() string {
	t := h.theme

	settingsBtn := t.HeaderButton
	if h.DrawerOpen {
		settingsBtn = t.HeaderButtonOn
	}
	buttons := []string{
		settingsBtn.Render("ctrl+o settings"),
		t.HeaderButton.Render("ctrl+s share"),
		t.HeaderButton.Render("ctrl+t " + t.Glyph()),
	}
	if t.GetLayoutMode() == styles.LayoutNarrow {
		buttons = []string{
			settingsBtn.Render("^o"),
			t.HeaderButton.Render("^s"),
			t.HeaderButton.Render(strings.Fields(t.Glyph())[0]),
		}
	}
	right := lipgloss.JoinHorizontal(lipgloss.Center, buttons...)

	left := t.HeaderTitle.Render(h.Title)
	if h.Notice != "" {
		left += "  " + t.MutedStyle.Render(h.Notice)
	}

	width := h.Width - 2
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, left, strings.Repeat(" ", gap), right)
	return t.Header.Copy().Width(h.Width).Render(row)
}
