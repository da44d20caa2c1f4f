// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/export"
	"github.com/jeranaias/playground-tui/internal/session"
	"github.com/jeranaias/playground-tui/internal/ui/components"
	"github.com/jeranaias/playground-tui/internal/util"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles a message and returns the updated panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ChatResultMsg:
		return m.handleResult(msg)

	case FeedbackSentMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			delete(m.feedback, msg.Index)
			m.refresh(false)
			return m, nil
		}
		m.status = "Feedback sent"
		return m, nil

	case ExportDoneMsg:
		return m.handleExport(msg)

	case StatusMsg:
		m.status = string(msg)
		return m, nil

	case components.CopiedExpiredMsg:
		m.clip.Update(msg)
		m.refresh(false)
		return m, nil

	case components.DotTickMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.busy, cmd = m.busy.Update(msg)
		m.refresh(false)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Panel-wide bindings first.
	switch {
	case key.Matches(msg, m.keys.CopyLast):
		return m.copyLast()
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()
	case key.Matches(msg, m.keys.Share):
		return m.share()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == focusTranscript {
		return m.handleTranscriptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.FocusToggle):
		if m.enterTranscript() {
			m.input.Blur()
			m.refresh(false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) handleTranscriptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FocusToggle), msg.String() == "i", msg.Type == tea.KeyEnter:
		m.focus = focusInput
		m.selected = -1
		m.refresh(false)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Prev):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Next):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.FeedbackUp):
		return m.sendFeedback(true)
	case key.Matches(msg, m.keys.FeedbackDown):
		return m.sendFeedback(false)
	case key.Matches(msg, m.keys.CopySelected):
		return m.copySelected()
	case key.Matches(msg, m.keys.CopyCode):
		return m.copyCode()
	}
	m.refresh(false)
	return m, nil
}

// enterTranscript selects the newest reply. It reports false when there is
// nothing to select.
func (m *Model) enterTranscript() bool {
	idx := assistantIndexes(m.ctrl.Messages())
	if len(idx) == 0 {
		return false
	}
	m.focus = focusTranscript
	m.selected = idx[len(idx)-1]
	return true
}

func (m *Model) moveSelection(delta int) {
	idx := assistantIndexes(m.ctrl.Messages())
	if len(idx) == 0 {
		m.selected = -1
		return
	}
	pos := len(idx) - 1
	for i, v := range idx {
		if v == m.selected {
			pos = i
			break
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(idx) {
		pos = len(idx) - 1
	}
	m.selected = idx[pos]
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) submit() (Model, tea.Cmd) {
	text := m.input.Value()
	if err := apiclient.ValidatePrompt(text); errors.Is(err, apiclient.ErrPromptTooLong) {
		m.status = err.Error()
		return m, nil
	}

	req, err := m.ctrl.Begin(text, *m.settings)
	switch {
	case errors.Is(err, session.ErrEmptyPrompt):
		return m, nil
	case errors.Is(err, session.ErrBusy):
		m.status = "Waiting for the current reply"
		return m, nil
	case err != nil:
		m.status = err.Error()
		return m, nil
	}

	m.logger.Debug("prompt submitted",
		zap.Uint64("request_id", req.ID),
		zap.String("model", req.Chat.Model),
		zap.String("agent_type", req.Chat.AgentType))

	m.input.Reset()
	m.status = ""
	busyCmd := m.busy.Start()
	m.refresh(true)

	ctx, cancel := context.WithCancel(m.opts.Context)
	m.cancel = cancel
	return m, tea.Batch(busyCmd, SubmitCmd(ctx, m.ctrl, req, m.opts.RequestTimeout))
}

func (m Model) handleResult(msg ChatResultMsg) (Model, tea.Cmd) {
	if m.ctrl.Resolve(msg.Result) != session.OutcomeNone && m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if !m.ctrl.Busy() {
		m.busy.Stop()
	}
	m.refresh(true)
	return m, nil
}

func (m Model) sendFeedback(positive bool) (Model, tea.Cmd) {
	if m.selected < 0 {
		return m, nil
	}
	if err := m.ctrl.CheckFeedback(m.selected); err != nil {
		m.status = err.Error()
		return m, nil
	}
	mark := components.FeedbackDown
	if positive {
		mark = components.FeedbackUp
	}
	m.feedback[m.selected] = mark
	m.refresh(false)
	return m, FeedbackCmd(m.opts.Context, m.ctrl, m.selected, positive)
}

func (m Model) copyLast() (Model, tea.Cmd) {
	msgs := m.ctrl.Messages()
	idx := assistantIndexes(msgs)
	if len(idx) == 0 {
		m.status = "No reply to copy"
		return m, nil
	}
	return m.copy(messageKey(msgs[idx[len(idx)-1]]), msgs[idx[len(idx)-1]].Content, "Reply copied")
}

func (m Model) copySelected() (Model, tea.Cmd) {
	msgs := m.ctrl.Messages()
	if m.selected < 0 || m.selected >= len(msgs) {
		return m, nil
	}
	return m.copy(messageKey(msgs[m.selected]), msgs[m.selected].Content, "Reply copied")
}

// copyCode copies the selected reply's code blocks in turn.
func (m Model) copyCode() (Model, tea.Cmd) {
	msgs := m.ctrl.Messages()
	if m.selected < 0 || m.selected >= len(msgs) {
		return m, nil
	}
	msg := msgs[m.selected]
	blocks := components.CodeBlocks(msg.Content)
	if len(blocks) == 0 {
		m.status = "No code in this reply"
		return m, nil
	}
	n := m.codeIndex[m.selected] % len(blocks)
	m.codeIndex[m.selected] = n + 1
	return m.copy(blockKey(msg, n), blocks[n].Text,
		fmt.Sprintf("Code block %d of %d copied", n+1, len(blocks)))
}

func (m Model) copy(key, text, done string) (Model, tea.Cmd) {
	cmd, err := m.clip.Copy(key, text)
	if err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		m.status = "Clipboard unavailable"
		return m, nil
	}
	m.status = done
	m.refresh(false)
	return m, cmd
}

func (m Model) newChat() (Model, tea.Cmd) {
	if err := m.ctrl.Reset(); err != nil {
		m.status = "Wait for the reply before starting a new chat"
		return m, nil
	}
	m.feedback = make(map[int]int)
	m.codeIndex = make(map[int]int)
	m.selected = -1
	m.status = "New chat"
	m.input.Reset()
	m.refresh(true)
	if m.focus == focusTranscript {
		m.focus = focusInput
		return m, m.input.Focus()
	}
	return m, nil
}

// Clear forgets the conversation, including a reply still in flight,
// and returns the panel to its empty state. The app calls it on sign-out.
func (m Model) Clear() Model {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.ctrl.Discard()
	m.busy.Stop()
	m.feedback = make(map[int]int)
	m.codeIndex = make(map[int]int)
	m.selected = -1
	m.focus = focusInput
	m.status = ""
	m.username = ""
	m.input.Reset()
	m.refresh(true)
	return m
}

func (m Model) share() (Model, tea.Cmd) {
	if m.ctrl.Len() == 0 {
		m.status = "Nothing to share yet"
		return m, nil
	}
	m.status = "Exporting..."
	return m, ExportCmd(m.Document(), m.opts.ExportFormat, m.opts.ExportDir)
}

func (m Model) handleExport(msg ExportDoneMsg) (Model, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, export.ErrEmpty):
		m.status = "Nothing to share yet"
		return m, nil
	case msg.Err != nil:
		m.logger.Warn("export failed", zap.Error(msg.Err))
		m.status = "Export failed: " + msg.Err.Error()
		return m, nil
	}

	m.logger.Info("conversation exported", zap.String("path", msg.Path))
	status := "Exported to " + util.Truncate(msg.Path, 60)
	cmd, err := m.clip.Copy("share", string(msg.Content))
	if err == nil {
		status += " (copied)"
	}
	m.status = status
	return m, cmd
}
