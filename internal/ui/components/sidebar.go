// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/playground-tui/internal/ui/styles"
	"github.com/jeranaias/playground-tui/internal/util"
)

// =============================================================================
// NAVIGATION ITEMS
// =============================================================================

// NavID identifies a sidebar entry.
type NavID string

const (
	NavPlayground NavID = "playground"
	NavModels     NavID = "models"
	NavAPI        NavID = "api"
	NavDocs       NavID = "docs"
	NavSettings   NavID = "settings"
	NavHelp       NavID = "help"
	NavAccount    NavID = "account"
	NavLogout     NavID = "logout"
)

// NavItem is one sidebar link.
type NavItem struct {
	ID    NavID
	Label string
	Icon  string
}

// NavItems is the sidebar in display order. The last three sit in the
// footer group.
var NavItems = []NavItem{
	{ID: NavPlayground, Label: "Playground", Icon: ">_"},
	{ID: NavModels, Label: "Models", Icon: "[]"},
	{ID: NavAPI, Label: "API", Icon: "<>"},
	{ID: NavDocs, Label: "Documentation", Icon: "##"},
	{ID: NavSettings, Label: "Settings", Icon: "::"},
	{ID: NavHelp, Label: "Help", Icon: "?"},
	{ID: NavAccount, Label: "Account", Icon: "@"},
	{ID: NavLogout, Label: "Logout", Icon: "<-"},
}

const footerStart = 5

// =============================================================================
// SIDEBAR
// =============================================================================

// Sidebar is the dashboard's navigation column.
type Sidebar struct {
	theme    *styles.Theme
	cursor   int
	active   NavID
	focused  bool
	username string
	height   int
}

// NewSidebar creates a sidebar with Playground active.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme, active: NavPlayground}
}

// SetFocused toggles keyboard focus; the cursor is only drawn when focused.
func (s *Sidebar) SetFocused(f bool) { s.focused = f }

// Focused reports keyboard focus.
func (s *Sidebar) Focused() bool { return s.focused }

// SetUser sets the name shown in the footer.
func (s *Sidebar) SetUser(name string) { s.username = name }

// SetHeight sets the rendered height.
func (s *Sidebar) SetHeight(h int) { s.height = h }

// MoveUp moves the cursor up, wrapping.
func (s *Sidebar) MoveUp() {
	s.cursor = (s.cursor - 1 + len(NavItems)) % len(NavItems)
}

// MoveDown moves the cursor down, wrapping.
func (s *Sidebar) MoveDown() {
	s.cursor = (s.cursor + 1) % len(NavItems)
}

// Cursor returns the item under the cursor.
func (s *Sidebar) Cursor() NavItem { return NavItems[s.cursor] }

// Select makes the cursor item active and returns it. Settings and
// Logout are actions, so they do not become the active page.
func (s *Sidebar) Select() NavItem {
	item := NavItems[s.cursor]
	if item.ID != NavSettings && item.ID != NavLogout {
		s.active = item.ID
	}
	return item
}

// SetActive marks id as the current page.
func (s *Sidebar) SetActive(id NavID) {
	s.active = id
	for i, it := range NavItems {
		if it.ID == id {
			s.cursor = i
		}
	}
}

// Active returns the current page.
func (s *Sidebar) Active() NavID { return s.active }

// View renders the sidebar at width columns.
func (s *Sidebar) View(width int) string {
	if width <= 0 {
		return ""
	}
	inner := width - 3
	if inner < 4 {
		inner = 4
	}

	var b strings.Builder
	b.WriteString(s.theme.SidebarBrand.Render(util.Truncate("Playground", inner)))
	b.WriteString("\n")

	for i, item := range NavItems {
		if i == footerStart {
			b.WriteString("\n")
		}
		label := util.Truncate(item.Icon+" "+item.Label, inner-2)
		style := s.theme.SidebarItem
		switch {
		case s.focused && i == s.cursor:
			style = s.theme.SidebarItemCursor
		case item.ID == s.active:
			style = s.theme.SidebarItemActive
		}
		b.WriteString(style.Render(util.PadRight(label, inner-2)))
		b.WriteString("\n")
	}

	if s.username != "" {
		b.WriteString(s.theme.SidebarFooter.Render(util.Truncate("@"+s.username, inner)))
	}

	st := s.theme.Sidebar.Copy().Width(width - 1)
	if s.height > 0 {
		st = st.Height(s.height)
	}
	return st.Render(strings.TrimRight(b.String(), "\n"))
}
