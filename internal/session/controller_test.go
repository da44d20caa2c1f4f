// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/model"
	"github.com/jeranaias/playground-tui/internal/settings"
)

// fakeBackend records requests and replies from a script.
type fakeBackend struct {
	mu        sync.Mutex
	chats     []apiclient.ChatRequest
	feedbacks []apiclient.FeedbackRequest

	reply       string
	chatErr     error
	feedbackErr error

	// release, when set, holds Chat until it is closed.
	release chan struct{}
	entered chan struct{}
}

func (f *fakeBackend) Chat(ctx context.Context, req apiclient.ChatRequest) (apiclient.ChatResponse, error) {
	f.mu.Lock()
	f.chats = append(f.chats, req)
	release, entered := f.release, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if f.chatErr != nil {
		return apiclient.ChatResponse{}, f.chatErr
	}
	return apiclient.ChatResponse{Response: f.reply}, nil
}

func (f *fakeBackend) Feedback(ctx context.Context, req apiclient.FeedbackRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedbacks = append(f.feedbacks, req)
	return f.feedbackErr
}

func contents(msgs []model.Message) [][2]string {
	out := make([][2]string, len(msgs))
	for i, m := range msgs {
		out[i] = [2]string{string(m.Role), m.Content}
	}
	return out
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_Success(t *testing.T) {
	backend := &fakeBackend{reply: "Hi there"}
	c := New(backend)

	res, err := c.Submit(context.Background(), "Hello", settings.Default())
	require.NoError(t, err)
	require.True(t, res.OK())

	assert.Equal(t, [][2]string{{"user", "Hello"}, {"assistant", "Hi there"}}, contents(c.Messages()))
	assert.False(t, c.Busy())
	assert.Equal(t, StateIdle, c.State())
	_, pending := c.Pending()
	assert.False(t, pending)

	outcome, lastErr := c.LastOutcome()
	assert.Equal(t, OutcomeResolved, outcome)
	assert.NoError(t, lastErr)
}

func TestSubmit_Failure(t *testing.T) {
	backend := &fakeBackend{chatErr: &apiclient.APIError{Status: 500}}
	c := New(backend)

	res, err := c.Submit(context.Background(), "Hello", settings.Default())
	require.NoError(t, err, "a failed request is not a rejection")
	assert.Error(t, res.Err)

	assert.Equal(t, [][2]string{{"user", "Hello"}}, contents(c.Messages()))
	assert.False(t, c.Busy())

	outcome, lastErr := c.LastOutcome()
	assert.Equal(t, OutcomeFailed, outcome)
	assert.Error(t, lastErr)
}

func TestSubmit_RetryAfterFailureKeepsUserMessage(t *testing.T) {
	backend := &fakeBackend{chatErr: errors.New("connection refused")}
	c := New(backend)

	_, err := c.Submit(context.Background(), "Hello", settings.Default())
	require.NoError(t, err)

	backend.chatErr = nil
	backend.reply = "Hi"
	_, err = c.Submit(context.Background(), "Hello", settings.Default())
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"user", "Hello"}, {"user", "Hello"}, {"assistant", "Hi"}}, contents(c.Messages()))
	require.Len(t, backend.chats, 2)
	assert.Len(t, backend.chats[1].History, 1, "the failed attempt's prompt is part of the history")
}

func TestSubmit_RejectsBlankInput(t *testing.T) {
	backend := &fakeBackend{reply: "x"}
	c := New(backend)
	c.SetInput("   \n\t")

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := c.Submit(context.Background(), text, settings.Default())
		assert.ErrorIs(t, err, ErrEmptyPrompt)
	}

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, backend.chats)
	assert.Equal(t, "   \n\t", c.Input(), "rejected submit leaves the buffer alone")
}

func TestSubmit_GrowsByTwoOnSuccessAndOneOnFailure(t *testing.T) {
	backend := &fakeBackend{reply: "ok"}
	c := New(backend)

	for i := 0; i < 3; i++ {
		before := c.Len()
		_, err := c.Submit(context.Background(), "ping", settings.Default())
		require.NoError(t, err)
		assert.Equal(t, before+2, c.Len())
	}

	backend.chatErr = errors.New("boom")
	before := c.Len()
	_, err := c.Submit(context.Background(), "ping", settings.Default())
	require.NoError(t, err)
	assert.Equal(t, before+1, c.Len())
}

// =============================================================================
// BEGIN / RUN / RESOLVE
// =============================================================================

func TestBegin_AppendsUserMessageBeforeNetworkCall(t *testing.T) {
	backend := &fakeBackend{reply: "Hi there"}
	c := New(backend)
	c.SetInput("Hello")

	s := settings.Default()
	require.NoError(t, s.SetAgentType("multi_step"))
	require.NoError(t, s.SetModel("gemini-1.5-flash"))

	req, err := c.Begin(c.Input(), s)
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"user", "Hello"}}, contents(c.Messages()))
	assert.True(t, c.Busy())
	assert.Equal(t, StateSending, c.State())
	assert.Empty(t, c.Input(), "input buffer is cleared")

	placeholder, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, model.RoleAssistant, placeholder.Role)
	assert.Empty(t, placeholder.Content)

	assert.Equal(t, "Hello", req.Chat.Prompt)
	assert.Equal(t, "multi_step", req.Chat.AgentType)
	assert.Equal(t, "gemini-1.5-flash", req.Chat.Model)
	assert.Empty(t, req.Chat.History, "history is the transcript before this prompt")
	assert.Empty(t, backend.chats, "no network call yet")

	res := c.Run(context.Background(), req)
	assert.Equal(t, OutcomeResolved, c.Resolve(res))
	assert.False(t, c.Busy())
	assert.Equal(t, 2, c.Len())
}

func TestBegin_RejectsWhileBusy(t *testing.T) {
	c := New(&fakeBackend{reply: "x"})

	req, err := c.Begin("first", settings.Default())
	require.NoError(t, err)

	_, err = c.Begin("second", settings.Default())
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, c.Len(), "rejected submit appends nothing")
	assert.ErrorIs(t, c.Reset(), ErrBusy)

	c.Resolve(Result{RequestID: req.ID, Reply: "done"})
	_, err = c.Begin("second", settings.Default())
	assert.NoError(t, err)
}

func TestBegin_SendsPriorHistory(t *testing.T) {
	backend := &fakeBackend{reply: "r1"}
	c := New(backend)
	_, err := c.Submit(context.Background(), "q1", settings.Default())
	require.NoError(t, err)

	backend.reply = "r2"
	_, err = c.Submit(context.Background(), "q2", settings.Default())
	require.NoError(t, err)

	require.Len(t, backend.chats, 2)
	assert.Equal(t, []apiclient.HistoryItem{
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "r1"},
	}, backend.chats[1].History)
}

func TestBegin_NormalizesPrompt(t *testing.T) {
	c := New(&fakeBackend{})
	// "e" followed by a combining acute accent composes to "é".
	req, err := c.Begin("cafe\u0301", settings.Default())
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", req.Chat.Prompt)
}

func TestBegin_KeepsSurroundingWhitespace(t *testing.T) {
	c := New(&fakeBackend{})
	text := "    if x {\n        return\n    }\n"
	req, err := c.Begin(text, settings.Default())
	require.NoError(t, err)
	assert.Equal(t, text, req.Chat.Prompt)

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, text, msgs[0].Content)
}

func TestDiscard_DropsInFlightRequest(t *testing.T) {
	c := New(&fakeBackend{})
	_, err := c.Submit(context.Background(), "first", settings.Default())
	require.NoError(t, err)

	req, err := c.Begin("second", settings.Default())
	require.NoError(t, err)
	assert.ErrorIs(t, c.Reset(), ErrBusy)

	c.Discard()
	assert.False(t, c.Busy())
	assert.Equal(t, 0, c.Len())
	_, pending := c.Pending()
	assert.False(t, pending)

	assert.Equal(t, OutcomeNone, c.Resolve(Result{RequestID: req.ID, Reply: "late"}))
	assert.Equal(t, 0, c.Len(), "late reply is not appended")

	next, err := c.Begin("third", settings.Default())
	require.NoError(t, err)
	assert.Empty(t, next.Chat.History)
}

func TestResolve_IgnoresStaleResult(t *testing.T) {
	c := New(&fakeBackend{})
	req, err := c.Begin("hello", settings.Default())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNone, c.Resolve(Result{RequestID: req.ID + 7, Reply: "stale"}))
	assert.True(t, c.Busy())

	c.Resolve(Result{RequestID: req.ID, Reply: "fresh"})
	assert.Equal(t, OutcomeNone, c.Resolve(Result{RequestID: req.ID, Reply: "again"}), "double resolve is ignored")
	assert.Equal(t, 2, c.Len())
}

// TestSubmit_ConcurrentOnlyOneInFlight races many submitters against a
// held request. Run with: go test -race ./internal/session/
func TestSubmit_ConcurrentOnlyOneInFlight(t *testing.T) {
	backend := &fakeBackend{reply: "ok", release: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := New(backend)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Submit(context.Background(), "first", settings.Default())
		assert.NoError(t, err)
	}()
	<-backend.entered

	var wg sync.WaitGroup
	var rejected sync.Map
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Begin("other", settings.Default())
			if errors.Is(err, ErrBusy) {
				rejected.Store(i, true)
			}
		}(i)
	}
	wg.Wait()

	count := 0
	rejected.Range(func(_, _ any) bool { count++; return true })
	assert.Equal(t, 20, count)

	close(backend.release)
	<-done
	assert.Equal(t, [][2]string{{"user", "first"}, {"assistant", "ok"}}, contents(c.Messages()))
}

// =============================================================================
// FEEDBACK
// =============================================================================

func TestSubmitFeedback(t *testing.T) {
	backend := &fakeBackend{reply: "Hi"}
	c := New(backend)
	_, err := c.Submit(context.Background(), "Hello", settings.Default())
	require.NoError(t, err)

	require.NoError(t, c.SubmitFeedback(context.Background(), 1, true))
	require.Len(t, backend.feedbacks, 1)
	assert.Equal(t, apiclient.FeedbackRequest{MessageID: 1, IsPositive: true}, backend.feedbacks[0])

	assert.ErrorIs(t, c.SubmitFeedback(context.Background(), 0, true), ErrBadIndex, "user messages take no feedback")
	assert.ErrorIs(t, c.SubmitFeedback(context.Background(), 9, false), ErrBadIndex)
	assert.Len(t, backend.feedbacks, 1)
}

func TestSubmitFeedback_FailureIsSwallowed(t *testing.T) {
	backend := &fakeBackend{reply: "Hi", feedbackErr: errors.New("503")}
	c := New(backend)
	_, err := c.Submit(context.Background(), "Hello", settings.Default())
	require.NoError(t, err)
	before := c.Messages()

	assert.NoError(t, c.SubmitFeedback(context.Background(), 1, false))
	assert.Equal(t, before, c.Messages())
	assert.False(t, c.Busy())
}

// =============================================================================
// RESET / SNAPSHOT
// =============================================================================

func TestReset(t *testing.T) {
	c := New(&fakeBackend{reply: "Hi"})
	_, err := c.Submit(context.Background(), "Hello", settings.Default())
	require.NoError(t, err)
	oldID := c.Transcript().ID

	require.NoError(t, c.Reset())
	assert.Equal(t, 0, c.Len())
	assert.NotEqual(t, oldID, c.Transcript().ID)
	outcome, _ := c.LastOutcome()
	assert.Equal(t, OutcomeNone, outcome)
}

func TestTranscript_IsSnapshot(t *testing.T) {
	c := New(&fakeBackend{reply: "Hi"})
	_, err := c.Submit(context.Background(), "Hello", settings.Default())
	require.NoError(t, err)

	snap := c.Transcript()
	snap.Append(model.NewUserMessage("extra"))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3, snap.Len())
}
