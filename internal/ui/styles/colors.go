// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// All colors are AdaptiveColor, so flipping lipgloss's background flag
// (see Theme.Toggle) re-themes every style that uses them.

// =============================================================================
// ACCENT COLORS
// =============================================================================

// Indigo - Primary accent, active nav item, focused fields
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// IndigoDeep - Darker indigo for selected backgrounds
var IndigoDeep = lipgloss.AdaptiveColor{Light: "#C7D2FE", Dark: "#312E81"}

// Cyan - Brand color, key hints, links
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success, positive feedback
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, negative feedback
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, busy state
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Header, sidebar and status bar background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F4F4F5", Dark: "#181825"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E4E4E7", Dark: "#313244"}

// OverlayDim - Less prominent borders and badges
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D4D4D8", Dark: "#45475A"}

// =============================================================================
// TEXT COLORS
// =============================================================================

var (
	TextPrimary   = lipgloss.AdaptiveColor{Light: "#18181B", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#52525B", Dark: "#A6ADC8"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#A1A1AA", Dark: "#6C7086"}
	TextInverse   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
)

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble
var (
	UserBubbleBg     = lipgloss.AdaptiveColor{Light: "#E0E7FF", Dark: "#1E3A8A"}
	UserBubbleFg     = lipgloss.AdaptiveColor{Light: "#1E3A8A", Dark: "#E0E7FF"}
	UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#6366F1", Dark: "#6366F1"}
)

// Assistant message bubble
var (
	AssistantBubbleBg     = lipgloss.AdaptiveColor{Light: "#F4F4F5", Dark: "#27273A"}
	AssistantBubbleFg     = lipgloss.AdaptiveColor{Light: "#27272A", Dark: "#E4E4E7"}
	AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#D4D4D8", Dark: "#45475A"}
)

// Selection ring around the focused assistant message
var SelectionBorder = Cyan

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet holds ASCII markers shown next to colored text so
// state never depends on color alone.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators are the markers used by the Render* helpers.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// RenderSuccess renders msg with the success marker.
func RenderSuccess(msg string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + msg)
}

// RenderError renders msg with the error marker.
func RenderError(msg string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + msg)
}

// RenderWarning renders msg with the warning marker.
func RenderWarning(msg string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + msg)
}

// RenderInfo renders msg with the info marker.
func RenderInfo(msg string) string {
	return lipgloss.NewStyle().Foreground(Cyan).
		Render(StatusIndicators.Info + " " + msg)
}
