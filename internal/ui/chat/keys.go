// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the chat panel's bindings.
type KeyMap struct {
	// Input focus
	Submit  key.Binding
	Newline key.Binding

	// Anywhere in the panel
	CopyLast key.Binding
	NewChat  key.Binding
	Share    key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Transcript focus
	FocusToggle  key.Binding
	Prev         key.Binding
	Next         key.Binding
	FeedbackUp   key.Binding
	FeedbackDown key.Binding
	CopySelected key.Binding
	CopyCode     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("alt+enter", "newline"),
		),
		CopyLast: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy reply"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		Share: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "share"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		FocusToggle: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "select replies"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous reply"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next reply"),
		),
		FeedbackUp: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "good reply"),
		),
		FeedbackDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "bad reply"),
		),
		CopySelected: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy reply"),
		),
		CopyCode: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy code"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar for input focus.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Newline, k.FocusToggle, k.CopyLast, k.Share, k.NewChat}
}

// TranscriptHelp returns the bindings shown while the transcript has focus.
func (k KeyMap) TranscriptHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.FeedbackUp, k.FeedbackDown, k.CopySelected, k.CopyCode}
}
