// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/settings"
	"github.com/jeranaias/playground-tui/internal/ui/components"
	"github.com/jeranaias/playground-tui/internal/util"
)

// pageTitle is the header title for a sidebar page.
func pageTitle(id components.NavID) string {
	for _, item := range components.NavItems {
		if item.ID == id {
			return item.Label
		}
	}
	return "Playground"
}

// pageView renders the informational pages reachable from the sidebar.
func (a *App) pageView(id components.NavID, width, height int) string {
	t := a.theme
	var lines []string
	row := func(label, value string) {
		lines = append(lines, t.DrawerLabel.Render(label)+t.DrawerValue.Render(value))
	}

	switch id {
	case components.NavModels:
		lines = append(lines, t.DrawerLegend.Render("Models"), "")
		for _, m := range settings.Models {
			mark := "  "
			style := t.DrawerValue
			if m.ID == a.settings.Model {
				mark = "> "
				style = t.DrawerValueActive
			}
			lines = append(lines, mark+style.Render(util.PadRight(m.ID, 26))+t.MutedStyle.Render(m.Provider))
		}
		lines = append(lines, "", t.DrawerLegend.Render("Agents"), "")
		for _, ag := range settings.Agents {
			lines = append(lines, t.DrawerValue.Render(util.PadRight(ag.ID, 14))+" "+t.MutedStyle.Render(ag.Description))
		}
		lines = append(lines, "", t.DrawerHint.Render("ctrl+o to change the model or agent"))

	case components.NavAPI:
		lines = append(lines, t.DrawerLegend.Render("API"), "")
		row("Base URL", a.cfg.API.BaseURL)
		row("Timeout", a.cfg.Timeout().String())
		lines = append(lines, "")
		for _, ep := range []struct{ method, path string }{
			{"POST", apiclient.PathToken},
			{"POST", apiclient.PathRegister},
			{"GET", apiclient.PathMe},
			{"POST", apiclient.PathChat},
			{"POST", apiclient.PathFeedback},
			{"GET", apiclient.PathHealth},
		} {
			lines = append(lines, t.ShortcutKey.Render(util.PadRight(ep.method, 6))+t.DrawerValue.Render(ep.path))
		}

	case components.NavDocs:
		lines = append(lines,
			t.DrawerLegend.Render("Documentation"), "",
			"Type a prompt and press enter. The reply appears once the",
			"backend answers; the conversation is sent as history with",
			"every prompt.", "",
			"Agent types:",
		)
		for _, ag := range settings.Agents {
			lines = append(lines, fmt.Sprintf("  %s  %s", t.DrawerValue.Render(ag.Name), t.MutedStyle.Render(ag.Description)))
		}
		lines = append(lines, "",
			"Sampling parameters and the system message are sent as",
			"request metadata.")

	case components.NavHelp:
		lines = append(lines, t.DrawerLegend.Render("Keys"), "")
		help := [][2]string{
			{"enter", "send the prompt"},
			{"alt+enter", "insert a newline"},
			{"esc", "select replies (up/down, + and - for feedback)"},
			{"y / c", "copy the selected reply / its code blocks"},
			{"ctrl+y", "copy the last reply"},
			{"ctrl+n", "start a new chat"},
			{"ctrl+s", "share the conversation"},
			{"ctrl+o", "settings drawer"},
			{"ctrl+t", "toggle dark / light"},
			{"ctrl+b", "sidebar"},
			{"ctrl+c", "quit"},
		}
		for _, h := range help {
			lines = append(lines, t.ShortcutKey.Render(util.PadRight(h[0], 12))+t.ShortcutDesc.Render(h[1]))
		}

	case components.NavAccount:
		lines = append(lines, t.DrawerLegend.Render("Account"), "")
		if user, ok := a.gate.User(); ok {
			row("Username", user.Username)
			row("Email", user.Email)
			row("ID", string(user.ID))
		} else {
			lines = append(lines, t.MutedStyle.Render("Not signed in"))
		}
		lines = append(lines, "", t.DrawerHint.Render("Logout is in the sidebar"))
	}

	content := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Padding(1, 2).Width(width).MaxHeight(height).Render(content)
}
