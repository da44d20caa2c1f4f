// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/session"
	"github.com/jeranaias/playground-tui/internal/settings"
	"github.com/jeranaias/playground-tui/internal/ui/components"
	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeBackend struct {
	mu       sync.Mutex
	reply    string
	chats    []apiclient.ChatRequest
	feedback []apiclient.FeedbackRequest
}

func (f *fakeBackend) Chat(ctx context.Context, req apiclient.ChatRequest) (apiclient.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, req)
	if err := ctx.Err(); err != nil {
		return apiclient.ChatResponse{}, err
	}
	return apiclient.ChatResponse{Response: f.reply}, nil
}

func (f *fakeBackend) Feedback(ctx context.Context, req apiclient.FeedbackRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, req)
	return nil
}

type harness struct {
	backend *fakeBackend
	ctrl    *session.Controller
	set     *settings.Settings
	copied  []string
	model   Model
	seq     uint64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{backend: &fakeBackend{reply: "pong"}}
	h.ctrl = session.New(h.backend)
	s := settings.Default()
	h.set = &s

	theme := styles.NewThemeWithMode(styles.ModeDark)
	clip := components.NewClipboardWith(func(text string) error {
		h.copied = append(h.copied, text)
		return nil
	})
	h.model = New(theme, h.ctrl, h.set, Options{
		ExportDir: t.TempDir(),
		Clipboard: clip,
	})
	h.model.SetSize(100, 30)
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	return cmd
}

// exchange submits text and resolves it with the backend reply.
func (h *harness) exchange(t *testing.T, text string) {
	t.Helper()
	h.model.input.SetValue(text)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, h.model.Busy())
	h.seq++
	h.send(ChatResultMsg{Result: session.Result{RequestID: h.seq, Reply: h.backend.reply}})
	require.False(t, h.model.Busy())
}

// chatResult runs cmd, expanding batches, and returns the first
// ChatResultMsg it produces.
func chatResult(t *testing.T, cmd tea.Cmd) ChatResultMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case ChatResultMsg:
		return msg
	case tea.BatchMsg:
		for _, sub := range msg {
			if sub == nil {
				continue
			}
			if res, ok := sub().(ChatResultMsg); ok {
				return res
			}
		}
	}
	t.Fatal("command produced no ChatResultMsg")
	return ChatResultMsg{}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_ShowsPendingThenReply(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.model.View(), "Start a conversation")

	h.model.input.SetValue("ping")
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.True(t, h.model.Busy())
	assert.Equal(t, 1, h.ctrl.Len())
	assert.Empty(t, h.model.input.Value(), "input clears on submit")
	assert.Contains(t, h.model.View(), "Thinking")

	h.send(ChatResultMsg{Result: session.Result{RequestID: 1, Reply: "pong"}})
	assert.False(t, h.model.Busy())
	assert.Equal(t, 2, h.ctrl.Len())

	view := h.model.View()
	assert.Contains(t, view, "pong")
	assert.NotContains(t, view, "Thinking")
}

func TestSubmit_FailureDropsPlaceholder(t *testing.T) {
	h := newHarness(t)
	h.model.input.SetValue("ping")
	h.send(tea.KeyMsg{Type: tea.KeyEnter})

	h.send(ChatResultMsg{Result: session.Result{RequestID: 1, Err: errors.New("boom")}})
	assert.False(t, h.model.Busy())
	assert.Equal(t, 1, h.ctrl.Len(), "user message stays, no reply appended")
	assert.NotContains(t, h.model.View(), "Thinking")
}

func TestSubmit_RejectedWhileBusy(t *testing.T) {
	h := newHarness(t)
	h.model.input.SetValue("first")
	h.send(tea.KeyMsg{Type: tea.KeyEnter})

	h.model.input.SetValue("second")
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, h.ctrl.Len())
	assert.Equal(t, "second", h.model.input.Value(), "rejected text stays in the input")
	assert.Contains(t, h.model.Status(), "Waiting")
}

func TestSubmit_BlankIgnored(t *testing.T) {
	h := newHarness(t)
	h.model.input.SetValue("   ")
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, h.model.Busy())
	assert.Zero(t, h.ctrl.Len())
}

func TestSubmitCmd_UsesSharedSettings(t *testing.T) {
	h := newHarness(t)
	h.set.AgentType = "multi_step"

	req, err := h.ctrl.Begin("plan a trip", *h.set)
	require.NoError(t, err)

	msg := SubmitCmd(context.Background(), h.ctrl, req, time.Second)()
	res, ok := msg.(ChatResultMsg)
	require.True(t, ok)
	assert.True(t, res.Result.OK())
	assert.Equal(t, "pong", res.Result.Reply)

	require.Len(t, h.backend.chats, 1)
	assert.Equal(t, "multi_step", h.backend.chats[0].AgentType)
	assert.Equal(t, "plan a trip", h.backend.chats[0].Prompt)
}

// =============================================================================
// TRANSCRIPT FOCUS
// =============================================================================

func TestFeedback_SelectedReply(t *testing.T) {
	h := newHarness(t)
	h.exchange(t, "one")
	h.exchange(t, "two")

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, h.model.InTranscript())
	assert.Equal(t, 3, h.model.Selected(), "newest reply selected first")

	h.send(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, h.model.Selected())
	h.send(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, h.model.Selected(), "selection stops at the first reply")

	cmd := h.send(runes("-"))
	require.NotNil(t, cmd)
	msg := cmd()
	sent, ok := msg.(FeedbackSentMsg)
	require.True(t, ok)
	assert.NoError(t, sent.Err)

	require.Len(t, h.backend.feedback, 1)
	assert.Equal(t, 1, h.backend.feedback[0].MessageID)
	assert.False(t, h.backend.feedback[0].IsPositive)

	h.send(msg)
	assert.Equal(t, "Feedback sent", h.model.Status())
	assert.Contains(t, h.model.View(), "[-]")
}

func TestFocusToggle_NeedsReply(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.model.InTranscript())

	h.exchange(t, "hi")
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, h.model.InTranscript())

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.model.InTranscript())
	assert.Equal(t, -1, h.model.Selected())
}

// =============================================================================
// CLIPBOARD
// =============================================================================

func TestCopyLast(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Empty(t, h.copied)
	assert.Equal(t, "No reply to copy", h.model.Status())

	h.exchange(t, "hi")
	cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.NotNil(t, cmd)
	assert.Equal(t, []string{"pong"}, h.copied)
	assert.Contains(t, h.model.View(), "copied!")
}

func TestCopyCode_CyclesBlocks(t *testing.T) {
	h := newHarness(t)
	h.backend.reply = "Two snippets:\n\n```go\nfmt.Println(1)\n```\n\nand\n\n```sh\necho 2\n```\n"
	h.exchange(t, "show code")

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	h.send(runes("c"))
	h.send(runes("c"))
	h.send(runes("c"))

	require.Len(t, h.copied, 3)
	assert.Contains(t, h.copied[0], "fmt.Println(1)")
	assert.Contains(t, h.copied[1], "echo 2")
	assert.Contains(t, h.copied[2], "fmt.Println(1)")
	assert.Equal(t, "Code block 1 of 2 copied", h.model.Status())
}

// =============================================================================
// NEW CHAT AND SHARE
// =============================================================================

func TestNewChat(t *testing.T) {
	h := newHarness(t)
	h.exchange(t, "hi")

	h.send(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Zero(t, h.ctrl.Len())
	assert.Equal(t, "New chat", h.model.Status())

	h.model.input.SetValue("again")
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	h.send(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, 1, h.ctrl.Len(), "reset refused while busy")
}

func TestClear_ForgetsConversation(t *testing.T) {
	h := newHarness(t)
	h.exchange(t, "hi")
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	h.send(runes("+"))
	require.NotEmpty(t, h.model.feedback)
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, h.model.InTranscript())
	h.model.SetUser("alice")

	h.model.input.SetValue("pending")
	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, h.model.Busy())

	h.model = h.model.Clear()
	assert.False(t, h.model.Busy())
	assert.Zero(t, h.ctrl.Len())
	assert.Equal(t, -1, h.model.Selected())
	assert.Empty(t, h.model.feedback)
	assert.Empty(t, h.model.Status())
	assert.False(t, h.model.InTranscript())

	res := chatResult(t, cmd)
	assert.ErrorIs(t, res.Result.Err, context.Canceled, "clearing aborts the request")
	h.send(res)
	assert.Zero(t, h.ctrl.Len())
}

func TestSubmit_UsesPanelContext(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	h.model.opts.Context = ctx
	cancel()

	h.model.input.SetValue("hello")
	res := chatResult(t, h.send(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.ErrorIs(t, res.Result.Err, context.Canceled)

	h.send(res)
	assert.False(t, h.model.Busy())
	assert.Equal(t, 1, h.ctrl.Len(), "failed request keeps only the user message")
}

func TestShare_WritesAndCopies(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, "Nothing to share yet", h.model.Status())

	h.exchange(t, "hello there")
	h.model.SetUser("alice")

	cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(ExportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	data, err := os.ReadFile(done.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello there")
	assert.Contains(t, string(data), "alice")

	h.send(msg)
	assert.Contains(t, h.model.Status(), "Exported to")
	require.NotEmpty(t, h.copied)
	assert.Contains(t, h.copied[len(h.copied)-1], "hello there")
}
