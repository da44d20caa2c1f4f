// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/export"
	"github.com/jeranaias/playground-tui/internal/logging"
	"github.com/jeranaias/playground-tui/internal/model"
	"github.com/jeranaias/playground-tui/internal/session"
	"github.com/jeranaias/playground-tui/internal/settings"
	"github.com/jeranaias/playground-tui/internal/ui/components"
	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// Placeholder is the empty-input hint.
const Placeholder = "Type your message here..."

// Input area layout: textarea rows, its border, and the counter line.
const (
	inputRows    = 3
	inputChrome  = 2
	counterLines = 1
)

type focusTarget int

const (
	focusInput focusTarget = iota
	focusTranscript
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the panel.
type Options struct {
	// Context parents every request the panel starts. Defaults to
	// context.Background.
	Context context.Context

	// RequestTimeout bounds one chat request. Zero leaves it to the client.
	RequestTimeout time.Duration

	// ExportDir and ExportFormat drive the share action.
	ExportDir    string
	ExportFormat string

	ShowTimestamps bool
	LineNumbers    bool

	// Clipboard defaults to the system clipboard.
	Clipboard *components.Clipboard

	Logger *zap.Logger
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat panel.
type Model struct {
	theme    *styles.Theme
	ctrl     *session.Controller
	settings *settings.Settings
	opts     Options
	keys     KeyMap
	logger   *zap.Logger

	input    textarea.Model
	viewport viewport.Model
	busy     components.BusyIndicator
	md       *components.MarkdownRenderer
	clip     *components.Clipboard

	focus     focusTarget
	selected  int         // transcript index of the selected reply, -1 for none
	feedback  map[int]int // transcript index -> components.FeedbackUp/Down
	codeIndex map[int]int // transcript index -> next code block to copy

	username string
	status   string

	// cancel aborts the in-flight chat request, if any.
	cancel context.CancelFunc

	width  int
	height int
	ready  bool
}

// New creates the panel. s is shared with the settings drawer and read at
// submit time.
func New(theme *styles.Theme, ctrl *session.Controller, s *settings.Settings, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = Placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = apiclient.MaxPromptRunes
	ta.SetHeight(inputRows)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	clip := opts.Clipboard
	if clip == nil {
		clip = components.NewClipboard()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = "markdown"
	}

	return Model{
		theme:     theme,
		ctrl:      ctrl,
		settings:  s,
		opts:      opts,
		keys:      DefaultKeyMap(),
		logger:    logging.OrNop(opts.Logger),
		input:     ta,
		viewport:  viewport.New(0, 0),
		busy:      components.NewBusyIndicator(theme),
		md:        components.NewMarkdownRenderer(80, theme.IsDark),
		clip:      clip,
		selected:  -1,
		feedback:  make(map[int]int),
		codeIndex: make(map[int]int),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SetSize lays the panel out in w x h cells.
func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
	m.input.SetWidth(max(w-inputChrome, 10))

	vpHeight := h - inputRows - inputChrome - counterLines
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = w
	m.viewport.Height = vpHeight
	m.md.SetWidth(max(w-6, 20))
	m.ready = true
	m.refresh(true)
}

// SetUser records the username for exports.
func (m *Model) SetUser(name string) { m.username = name }

// SetFocused focuses or blurs the input. The transcript keeps its
// selection either way.
func (m *Model) SetFocused(f bool) tea.Cmd {
	if !f {
		m.input.Blur()
		return nil
	}
	m.focus = focusInput
	return m.input.Focus()
}

// ThemeChanged re-renders after a dark/light switch.
func (m *Model) ThemeChanged() {
	m.md.SetDark(m.theme.IsDark)
	m.refresh(false)
}

// Busy reports whether a reply is pending.
func (m Model) Busy() bool { return m.ctrl.Busy() }

// Status returns the transient status line.
func (m Model) Status() string { return m.status }

// Selected returns the transcript index of the selected reply, or -1.
func (m Model) Selected() int { return m.selected }

// InTranscript reports whether the transcript has focus.
func (m Model) InTranscript() bool { return m.focus == focusTranscript }

// Keys returns the panel's bindings.
func (m Model) Keys() KeyMap { return m.keys }

// Document returns the conversation for export.
func (m Model) Document() export.Document {
	return export.Document{
		Transcript: m.ctrl.Transcript(),
		Model:      m.settings.Model,
		AgentType:  m.settings.AgentType,
		Username:   m.username,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// assistantIndexes lists transcript positions holding assistant replies.
func assistantIndexes(msgs []model.Message) []int {
	var out []int
	for i, msg := range msgs {
		if msg.IsAssistant() {
			out = append(out, i)
		}
	}
	return out
}

func messageKey(msg model.Message) string { return "msg:" + msg.ID }

func blockKey(msg model.Message, block int) string {
	return fmt.Sprintf("code:%s:%d", msg.ID, block)
}
