// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/playground-tui/internal/apiclient"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(Options{Secret: "test-secret", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func loggedInClient(t *testing.T, ts *httptest.Server) *apiclient.Client {
	t.Helper()
	ctx := context.Background()
	anon := apiclient.New(ts.URL, nil)
	_, err := anon.Register(ctx, apiclient.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "hunter2"})
	require.NoError(t, err)
	tok, err := anon.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	return apiclient.New(ts.URL, apiclient.StaticToken(tok.AccessToken))
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	require.NoError(t, apiclient.New(ts.URL, nil).Health(context.Background()))
}

func TestAuthFlow(t *testing.T) {
	_, ts := newTestServer(t)
	client := loggedInClient(t, ts)

	me, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, apiclient.UserID("1"), me.ID)
}

func TestLogin_ByEmail(t *testing.T) {
	_, ts := newTestServer(t)
	loggedInClient(t, ts)

	_, err := apiclient.New(ts.URL, nil).Login(context.Background(), "Alice@Example.com", "hunter2")
	assert.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, ts := newTestServer(t)
	loggedInClient(t, ts)

	_, err := apiclient.New(ts.URL, nil).Login(context.Background(), "alice", "nope")
	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))
}

func TestRegister_Duplicate(t *testing.T) {
	_, ts := newTestServer(t)
	loggedInClient(t, ts)

	_, err := apiclient.New(ts.URL, nil).Register(context.Background(),
		apiclient.RegisterRequest{Email: "other@example.com", Username: "alice", Password: "x"})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Username already taken", apiErr.Detail)
}

func TestMe_RequiresToken(t *testing.T) {
	_, ts := newTestServer(t)

	_, err := apiclient.New(ts.URL, apiclient.StaticToken("garbage")).Me(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))

	resp, err := http.Get(ts.URL + "/users/me/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
}

func TestChat_AgentTypes(t *testing.T) {
	_, ts := newTestServer(t)
	client := loggedInClient(t, ts)
	ctx := context.Background()

	resp, err := client.Chat(ctx, apiclient.ChatRequest{
		Prompt:    "hello there",
		AgentType: "simple",
		Model:     "gpt-4o",
		Metadata:  map[string]any{"temperature": 0.7},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "hello there")
	assert.Contains(t, resp.Response, "gpt-4o")
	assert.Equal(t, 0.7, resp.Metadata["temperature"])

	resp, err = client.Chat(ctx, apiclient.ChatRequest{Prompt: "fix the bug", AgentType: "prompt_optim"})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "Optimized prompt: `fix the bug.`")

	resp, err = client.Chat(ctx, apiclient.ChatRequest{Prompt: "Read the file. Parse it. Print totals. Exit.", AgentType: "multi_step"})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "1. Read the file")
	assert.Contains(t, resp.Response, "3. Print totals; Exit")
	assert.NotContains(t, resp.Response, "4.")
}

func TestChat_UnknownAgent(t *testing.T) {
	_, ts := newTestServer(t)
	client := loggedInClient(t, ts)

	_, err := client.Chat(context.Background(), apiclient.ChatRequest{Prompt: "hi", AgentType: "bogus"})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestChat_PromptBounds(t *testing.T) {
	_, ts := newTestServer(t)
	client := loggedInClient(t, ts)

	// Bypass client-side validation to hit the server check.
	body := `{"prompt":"","agent_type":"simple","history":[]}`
	req, err := http.NewRequest(http.MethodPost, ts.URL+apiclient.PathChat, strings.NewReader(body))
	require.NoError(t, err)
	tok, err := apiclient.New(ts.URL, nil).Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	_, err = client.Chat(context.Background(), apiclient.ChatRequest{Prompt: strings.Repeat("x", apiclient.MaxPromptRunes+1), AgentType: "simple"})
	assert.ErrorIs(t, err, apiclient.ErrPromptTooLong)
}

func TestFeedback_Recorded(t *testing.T) {
	srv, ts := newTestServer(t)
	client := loggedInClient(t, ts)

	require.NoError(t, client.Feedback(context.Background(), apiclient.FeedbackRequest{MessageID: 1, IsPositive: true}))

	log := srv.FeedbackLog()
	require.Len(t, log, 1)
	assert.Equal(t, "alice", log[0].Username)
	assert.Equal(t, 1, log[0].MessageID)
	assert.True(t, log[0].IsPositive)
}

func TestIssuer_Expiry(t *testing.T) {
	iss := NewIssuer("s", time.Minute)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return base }

	tok, err := iss.Issue("alice")
	require.NoError(t, err)

	sub, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	iss.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = iss.Verify(tok)
	assert.Error(t, err)

	_, err = NewIssuer("other", time.Minute).Verify(tok)
	assert.Error(t, err, "signature from another secret")
}

func TestSplitSubtasks(t *testing.T) {
	assert.Equal(t, []string{"just one"}, splitSubtasks("just one", 3))
	assert.Equal(t, []string{"a", "b", "c; d"}, splitSubtasks("a. b; c\nd", 3))
	assert.Equal(t, []string{"..."}, splitSubtasks("...", 3))
}

func TestServe_Shutdown(t *testing.T) {
	srv, err := New(Options{Addr: "127.0.0.1:0", Secret: "s"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
