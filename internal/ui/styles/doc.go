// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the playground TUI.

# Color System (colors.go)

Every color is a lipgloss.AdaptiveColor with a light and a dark value.
Which one renders depends on lipgloss's global background flag.

  - Indigo - primary accent (active nav item, focused drawer field)
  - Cyan - key hints and the selection ring
  - Emerald / Rose - positive and negative feedback, success and errors
  - Amber - warnings and the busy state

# Theme System (theme.go)

	theme := styles.NewThemeWithMode(styles.ModeDark)
	theme.Toggle() // now light

Toggle backs the header's theme button. SetMode re-applies the
background flag and rebuilds the styles.

# Layout

SetSize feeds GetLayoutMode, which drives SidebarWidth and DrawerWidth:

	LayoutNarrow  - < 60 columns, sidebar hidden
	LayoutMedium  - 60-99 columns
	LayoutWide    - >= 100 columns
*/
package styles
