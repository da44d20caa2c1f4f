// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// CopiedDuration is how long a "copied" confirmation stays visible.
const CopiedDuration = 2 * time.Second

// CopiedExpiredMsg clears the confirmation set by the matching Copy.
type CopiedExpiredMsg struct {
	gen int
}

// Clipboard copies text and remembers which item was copied last, so the
// view can show a transient confirmation.
type Clipboard struct {
	write  func(string) error
	copied string
	gen    int
}

// NewClipboard uses the system clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll}
}

// NewClipboardWith uses write instead of the system clipboard.
func NewClipboardWith(write func(string) error) *Clipboard {
	return &Clipboard{write: write}
}

// Copy writes text and marks key as copied. The returned command clears
// the mark after CopiedDuration.
func (c *Clipboard) Copy(key, text string) (tea.Cmd, error) {
	if err := c.write(text); err != nil {
		return nil, err
	}
	c.copied = key
	c.gen++
	gen := c.gen
	return tea.Tick(CopiedDuration, func(time.Time) tea.Msg {
		return CopiedExpiredMsg{gen: gen}
	}), nil
}

// Update clears the mark when its timer fires. A newer Copy keeps its own
// mark.
func (c *Clipboard) Update(msg tea.Msg) {
	if m, ok := msg.(CopiedExpiredMsg); ok && m.gen == c.gen {
		c.copied = ""
	}
}

// Copied reports whether key is the item currently marked copied.
func (c *Clipboard) Copied(key string) bool {
	return key != "" && c.copied == key
}
