// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders prose with glamour. The underlying renderer is
// rebuilt lazily when the width or theme changes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	width    int
	dark     bool
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer wrapping at width.
func NewMarkdownRenderer(width int, dark bool) *MarkdownRenderer {
	return &MarkdownRenderer{width: width, dark: dark}
}

// SetWidth changes the wrap width.
func (m *MarkdownRenderer) SetWidth(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width != m.width {
		m.width = width
		m.renderer = nil
	}
}

// SetDark switches between the dark and light glamour styles.
func (m *MarkdownRenderer) SetDark(dark bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dark != m.dark {
		m.dark = dark
		m.renderer = nil
	}
}

// Render renders markdown. If glamour fails the text is word-wrapped
// as-is.
func (m *MarkdownRenderer) Render(text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	width := m.width
	if width < 20 {
		width = 20
	}
	if m.renderer == nil {
		style := "light"
		if m.dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return wordwrap.String(text, width)
		}
		m.renderer = r
	}

	out, err := m.renderer.Render(text)
	if err != nil {
		return wordwrap.String(text, width)
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// CONTENT
// =============================================================================

// ContentOptions controls RenderContent.
type ContentOptions struct {
	Width       int
	LineNumbers bool

	// CopiedBlock is the index of the code block showing "copied!", or -1.
	CopiedBlock int
}

// RenderContent renders an assistant reply: prose through md, fenced code
// through chroma CodeBlocks. md may be nil for plain wrapped prose.
func RenderContent(text string, theme *styles.Theme, md *MarkdownRenderer, opts ContentOptions) string {
	var parts []string
	block := 0
	for _, seg := range SplitFences(text) {
		if seg.Code {
			cb := NewCodeBlock(seg.Language, seg.Text)
			cb.MaxWidth = opts.Width
			cb.LineNumbers = opts.LineNumbers
			cb.Copied = block == opts.CopiedBlock
			parts = append(parts, cb.Render(theme))
			block++
			continue
		}
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		if md != nil {
			parts = append(parts, md.Render(seg.Text))
		} else {
			parts = append(parts, wordwrap.String(strings.TrimSpace(seg.Text), opts.Width))
		}
	}
	return strings.Join(parts, "\n")
}
