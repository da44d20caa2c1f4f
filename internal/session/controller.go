// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/logging"
	"github.com/jeranaias/playground-tui/internal/model"
	"github.com/jeranaias/playground-tui/internal/settings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyPrompt rejects a submit whose text is blank after trimming.
	ErrEmptyPrompt = errors.New("nothing to send")

	// ErrBusy rejects a submit (or reset) while a request is in flight.
	ErrBusy = errors.New("a request is already in flight")

	// ErrBadIndex rejects feedback for a position that holds no assistant
	// message.
	ErrBadIndex = errors.New("no assistant message at that position")
)

// =============================================================================
// STATE
// =============================================================================

// State is the submission state. A submission moves Idle → Sending and
// back to Idle once its Result is resolved, whatever the outcome.
type State int

const (
	StateIdle State = iota
	StateSending
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

// Outcome records how the most recent submission ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeResolved
	OutcomeFailed
)

// Backend is the part of the API client the controller needs.
type Backend interface {
	Chat(ctx context.Context, req apiclient.ChatRequest) (apiclient.ChatResponse, error)
	Feedback(ctx context.Context, req apiclient.FeedbackRequest) error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns one chat session: the transcript, the single pending
// assistant placeholder and the input buffer.
//
// A submission is split in three so a UI event loop never blocks:
// Begin (synchronous bookkeeping), Run (the network call, safe to run on
// any goroutine) and Resolve (apply the Result). Submit chains the three
// for callers that can block.
type Controller struct {
	mu sync.Mutex

	backend Backend
	logger  *zap.Logger

	transcript *model.Transcript
	startedAt  time.Time

	// state and pending change together: pending is non-nil exactly while
	// state is StateSending. pending doubles as the busy indicator.
	state   State
	pending *model.Message
	seq     uint64

	input   string
	outcome Outcome
	lastErr error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger failures are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logging.OrNop(logger) }
}

// New creates a controller with an empty transcript.
func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:    backend,
		logger:     zap.NewNop(),
		transcript: model.NewTranscript(),
		startedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request is a submission that has been accepted and is waiting for Run.
type Request struct {
	ID   uint64
	Chat apiclient.ChatRequest
}

// Result is what Run produces: the reply text or the error.
type Result struct {
	RequestID uint64
	Reply     string
	Err       error
	Duration  time.Duration
}

// OK reports whether the request succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Begin validates text and, if accepted, appends the user message,
// creates the pending placeholder, clears the input buffer and enters
// StateSending. The returned Request carries the history as it was before
// this message, plus the prompt, agent type and model from s.
//
// Begin returns ErrEmptyPrompt or ErrBusy without touching any state.
func (c *Controller) Begin(text string, s settings.Settings) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, ErrEmptyPrompt
	}
	prompt := norm.NFC.String(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSending {
		return Request{}, ErrBusy
	}

	history := apiclient.HistoryFrom(c.transcript.Messages())
	c.transcript.Append(model.NewUserMessage(prompt))

	placeholder := model.NewAssistantMessage("")
	c.pending = &placeholder
	c.state = StateSending
	c.input = ""
	c.seq++

	return Request{
		ID: c.seq,
		Chat: apiclient.ChatRequest{
			Prompt:    prompt,
			AgentType: s.AgentType,
			Model:     s.Model,
			History:   history,
			Metadata:  s.Metadata(),
		},
	}, nil
}

// Run performs the network call for req. It does not touch controller
// state and may run on any goroutine.
func (c *Controller) Run(ctx context.Context, req Request) Result {
	start := time.Now()
	resp, err := c.backend.Chat(ctx, req.Chat)
	res := Result{RequestID: req.ID, Duration: time.Since(start)}
	if err != nil {
		res.Err = err
		return res
	}
	res.Reply = resp.Response
	return res
}

// Resolve applies res. On success the placeholder is dropped and the
// reply appended as an assistant message; on failure the placeholder is
// dropped and the error logged. Either way the controller returns to
// StateIdle. A Result for a request that is no longer pending is ignored.
func (c *Controller) Resolve(res Result) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSending || res.RequestID != c.seq {
		c.logger.Debug("ignoring stale chat result", zap.Uint64("request_id", res.RequestID))
		return OutcomeNone
	}

	c.pending = nil
	c.state = StateIdle

	if res.Err != nil {
		c.outcome = OutcomeFailed
		c.lastErr = res.Err
		c.logger.Warn("chat request failed",
			zap.Uint64("request_id", res.RequestID),
			zap.Duration("duration", res.Duration),
			zap.Error(res.Err))
		return c.outcome
	}

	c.transcript.Append(model.NewAssistantMessage(res.Reply))
	c.outcome = OutcomeResolved
	c.lastErr = nil
	c.logger.Info("chat request resolved",
		zap.Uint64("request_id", res.RequestID),
		zap.Duration("duration", res.Duration),
		zap.Int("reply_len", len(res.Reply)))
	return c.outcome
}

// Submit runs a whole submission synchronously: Begin, Run, Resolve.
// The returned error is only a rejection (ErrEmptyPrompt, ErrBusy); a
// failed request is reported through Result.Err.
func (c *Controller) Submit(ctx context.Context, text string, s settings.Settings) (Result, error) {
	req, err := c.Begin(text, s)
	if err != nil {
		return Result{}, err
	}
	res := c.Run(ctx, req)
	c.Resolve(res)
	return res, nil
}

// SubmitInput submits the current input buffer.
func (c *Controller) SubmitInput(ctx context.Context, s settings.Settings) (Result, error) {
	return c.Submit(ctx, c.Input(), s)
}

// =============================================================================
// FEEDBACK
// =============================================================================

// CheckFeedback reports whether index refers to an assistant message.
func (c *Controller) CheckFeedback(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg, ok := c.transcript.At(index)
	if !ok || !msg.IsAssistant() {
		return fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	return nil
}

// SubmitFeedback sends a thumbs up/down for the message at index. It is
// fire-and-forget: a failed send is logged and otherwise ignored, and no
// session state changes either way. Only an invalid index is returned.
func (c *Controller) SubmitFeedback(ctx context.Context, index int, positive bool) error {
	if err := c.CheckFeedback(index); err != nil {
		return err
	}

	err := c.backend.Feedback(ctx, apiclient.FeedbackRequest{MessageID: index, IsPositive: positive})
	if err != nil {
		c.logger.Warn("feedback not delivered",
			zap.Int("message_id", index),
			zap.Bool("is_positive", positive),
			zap.Error(err))
		return nil
	}
	c.logger.Debug("feedback delivered", zap.Int("message_id", index), zap.Bool("is_positive", positive))
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the transcript in insertion order. The
// pending placeholder is not included.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Messages()
}

// Len returns the number of transcript messages.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Len()
}

// Pending returns the placeholder for the reply being awaited, if any.
func (c *Controller) Pending() (model.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return model.Message{}, false
	}
	return *c.pending, true
}

// Busy reports whether a request is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateSending
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastOutcome returns how the most recent submission ended and its error.
func (c *Controller) LastOutcome() (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome, c.lastErr
}

// Input returns the input buffer.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInput replaces the input buffer.
func (c *Controller) SetInput(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = s
}

// Transcript returns a snapshot of the transcript, for export.
func (c *Controller) Transcript() *model.Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := &model.Transcript{ID: c.transcript.ID, CreatedAt: c.transcript.CreatedAt}
	for _, m := range c.transcript.Messages() {
		snap.Append(m)
	}
	return snap
}

// StartedAt returns when the current transcript began.
func (c *Controller) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startedAt
}

// Reset starts a fresh transcript. It is refused while busy.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSending {
		return ErrBusy
	}
	c.clear()
	return nil
}

// Discard drops the transcript and any in-flight request, returning to
// StateIdle. The result of a discarded request is ignored by Resolve.
// Used when the viewer signs out.
func (c *Controller) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSending {
		c.logger.Debug("discarding in-flight chat request", zap.Uint64("request_id", c.seq))
	}
	c.pending = nil
	c.state = StateIdle
	c.clear()
}

func (c *Controller) clear() {
	c.transcript = model.NewTranscript()
	c.startedAt = time.Now()
	c.outcome = OutcomeNone
	c.lastErr = nil
	c.input = ""
}
