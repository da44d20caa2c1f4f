// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME MODE
// =============================================================================

// Mode is the requested color scheme.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode parses "auto", "dark" or "light".
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAuto, "":
		return ModeAuto, true
	case ModeDark:
		return ModeDark, true
	case ModeLight:
		return ModeLight, true
	}
	return ModeAuto, false
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components for the application.
type Theme struct {
	Mode         Mode
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	App     lipgloss.Style
	Loading lipgloss.Style

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderButton   lipgloss.Style
	HeaderButtonOn lipgloss.Style

	Sidebar           lipgloss.Style
	SidebarBrand      lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarItemActive lipgloss.Style
	SidebarItemCursor lipgloss.Style
	SidebarFooter     lipgloss.Style

	// ==========================================================================
	// SETTINGS DRAWER
	// ==========================================================================

	Drawer            lipgloss.Style
	DrawerTitle       lipgloss.Style
	DrawerLegend      lipgloss.Style
	DrawerLabel       lipgloss.Style
	DrawerValue       lipgloss.Style
	DrawerValueActive lipgloss.Style
	DrawerHint        lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style
	EmptyState      lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	CharCount        lipgloss.Style
	CharCountWarning lipgloss.Style
	CharCountDanger  lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusBadge  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// BUSY INDICATOR
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ThinkingDots lipgloss.Style

	// ==========================================================================
	// CODE BLOCKS
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
	CodeLineNum   lipgloss.Style
	CodeCopied    lipgloss.Style

	// ==========================================================================
	// LOGIN
	// ==========================================================================

	LoginBox   lipgloss.Style
	LoginTitle lipgloss.Style
	LoginLabel lipgloss.Style
	LoginError lipgloss.Style
	LoginHint  lipgloss.Style

	// ==========================================================================
	// STATUS TEXT
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	MutedStyle   lipgloss.Style
}

// NewTheme creates a theme that follows the terminal background.
func NewTheme() *Theme {
	return NewThemeWithMode(ModeAuto)
}

// NewThemeWithMode creates a theme for an explicit mode.
func NewThemeWithMode(mode Mode) *Theme {
	profile := termenv.ColorProfile()
	t := &Theme{
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.SetMode(mode)
	return t
}

// SetMode switches the color scheme. AdaptiveColor resolves against
// lipgloss's global background flag, so this affects every style.
func (t *Theme) SetMode(mode Mode) {
	t.Mode = mode
	switch mode {
	case ModeDark:
		t.IsDark = true
	case ModeLight:
		t.IsDark = false
	default:
		t.Mode = ModeAuto
		t.IsDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(t.IsDark)
	t.initStyles()
}

// Toggle flips between dark and light and returns the new mode.
// From auto it flips whatever was detected.
func (t *Theme) Toggle() Mode {
	if t.IsDark {
		t.SetMode(ModeLight)
	} else {
		t.SetMode(ModeDark)
	}
	return t.Mode
}

// Glyph is the header's theme toggle label.
func (t *Theme) Glyph() string {
	if t.IsDark {
		return "☾ dark"
	}
	return "☼ light"
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Loading = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.HeaderButton = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.HeaderButtonOn = t.HeaderButton.Copy().
		Foreground(Indigo).
		BorderForeground(Indigo).
		Bold(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarBrand = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true).
		MarginBottom(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.SidebarItemActive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(IndigoDeep).
		Bold(true).
		Padding(0, 1)

	t.SidebarItemCursor = lipgloss.NewStyle().
		Foreground(Cyan).
		Padding(0, 1)

	t.SidebarFooter = lipgloss.NewStyle().
		Foreground(TextMuted).
		MarginTop(1)

	// Settings drawer
	t.Drawer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 1)

	t.DrawerTitle = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.DrawerLegend = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Underline(true).
		MarginTop(1)

	t.DrawerLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(14)

	t.DrawerValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.DrawerValueActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Bold(true).
		Padding(0, 1)

	t.DrawerHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)

	t.RoleLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.EmptyState = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 2)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.CharCount = lipgloss.NewStyle().Foreground(TextMuted)
	t.CharCountWarning = lipgloss.NewStyle().Foreground(Amber)
	t.CharCountDanger = lipgloss.NewStyle().Foreground(Rose).Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Busy indicator
	t.Spinner = lipgloss.NewStyle().Foreground(Indigo)
	t.ThinkingText = lipgloss.NewStyle().Foreground(TextSecondary)
	t.ThinkingDots = lipgloss.NewStyle().Foreground(Indigo)

	// Code blocks
	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(OverlayDim).
		Padding(0, 1).
		Bold(true)

	t.CodeLineNum = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	t.CodeCopied = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	// Login
	t.LoginBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 3)

	t.LoginTitle = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true).
		MarginBottom(1)

	t.LoginLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LoginError = lipgloss.NewStyle().
		Foreground(Rose)

	t.LoginHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status text
	t.SuccessStyle = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.MutedStyle = lipgloss.NewStyle().Foreground(TextMuted)
}

// =============================================================================
// LAYOUT
// =============================================================================

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// SidebarWidth is the sidebar's outer width for the current layout.
// The sidebar collapses entirely on narrow terminals.
func (t *Theme) SidebarWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return 0
	case LayoutMedium:
		return 18
	default:
		return 24
	}
}

// DrawerWidth is the settings drawer's outer width.
func (t *Theme) DrawerWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return t.Width
	case LayoutMedium:
		return 34
	default:
		return 40
	}
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
