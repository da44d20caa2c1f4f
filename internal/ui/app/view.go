// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/playground-tui/internal/auth"
	"github.com/jeranaias/playground-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the current route.
func (a *App) View() string {
	if a.width == 0 {
		return ""
	}
	switch a.Route() {
	case auth.RouteLoading:
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			a.theme.Loading.Render("Loading..."))
	case auth.RouteLogin:
		return a.login.View()
	}
	return a.dashboardView()
}

func (a *App) dashboardView() string {
	a.header.DrawerOpen = a.drawer.IsOpen()
	a.header.Notice = a.notice

	sw, mw, dw, height := a.bodySizes()

	var cols []string
	if sw > 0 {
		cols = append(cols, a.sidebar.View(sw))
	}
	if mw > 0 {
		main := a.chat.View()
		if a.page != components.NavPlayground {
			main = a.pageView(a.page, mw, height)
		}
		cols = append(cols, lipgloss.NewStyle().Width(mw).Height(height).MaxHeight(height).Render(main))
	}
	if dw > 0 {
		cols = append(cols, lipgloss.NewStyle().Height(height).MaxHeight(height).Render(a.drawer.View()))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	a.status.Model = a.settings.Model
	a.status.AgentType = a.settings.AgentType
	a.status.Busy = a.chat.Busy()
	a.status.Message = a.chat.Status()
	a.status.Shortcuts = a.shortcuts()

	return a.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		a.header.View(),
		body,
		a.status.View(),
	))
}

// shortcuts returns the key hints for whatever has focus.
func (a *App) shortcuts() []components.Shortcut {
	switch {
	case a.drawer.IsOpen():
		return []components.Shortcut{
			{Key: "tab", Desc: "next"},
			{Key: "left/right", Desc: "change"},
			{Key: "esc", Desc: "close"},
		}
	case a.sidebar.Focused():
		return []components.Shortcut{
			{Key: "up/down", Desc: "move"},
			{Key: "enter", Desc: "open"},
			{Key: "esc", Desc: "back"},
		}
	case a.page != components.NavPlayground:
		return []components.Shortcut{
			{Key: "esc", Desc: "playground"},
			{Key: "ctrl+b", Desc: "menu"},
		}
	}

	keys := a.chat.Keys()
	bindings := keys.ShortHelp()
	if a.chat.InTranscript() {
		bindings = keys.TranscriptHelp()
	}
	out := make([]components.Shortcut, 0, len(bindings)+1)
	for _, b := range bindings {
		out = append(out, shortcutFor(b))
	}
	return append(out, components.Shortcut{Key: "ctrl+b", Desc: "menu"})
}

func shortcutFor(b key.Binding) components.Shortcut {
	h := b.Help()
	return components.Shortcut{Key: h.Key, Desc: h.Desc}
}
