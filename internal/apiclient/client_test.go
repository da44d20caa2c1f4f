// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestChat_SendsRequestAndParsesResponse(t *testing.T) {
	var got ChatRequest
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathChat, r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"Hi there","metadata":{}}`))
	})

	client := New(srv.URL, StaticToken("tok-123"))
	resp, err := client.Chat(context.Background(), ChatRequest{
		Prompt:    "Hello",
		AgentType: "simple",
		Model:     "gpt-4o",
		History:   []HistoryItem{{Role: "user", Content: "earlier"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Hi there", resp.Response)
	assert.Equal(t, "Hello", got.Prompt)
	assert.Equal(t, "simple", got.AgentType)
	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.History, 1)
	assert.Equal(t, "earlier", got.History[0].Content)
}

func TestChat_EmptyHistoryEncodesAsArray(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(`{"response":"ok"}`))
	})

	_, err := New(srv.URL, StaticToken("t")).Chat(context.Background(), ChatRequest{Prompt: "x", AgentType: "simple"})
	require.NoError(t, err)

	assert.Equal(t, "[]", string(raw["history"]))
	_, hasModel := raw["model"]
	assert.False(t, hasModel, "empty model is omitted")
}

func TestChat_NonSuccessStatus(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"An error occurred while processing your request."}`))
	})

	_, err := New(srv.URL, StaticToken("t")).Chat(context.Background(), ChatRequest{Prompt: "x", AgentType: "simple"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "An error occurred while processing your request.", apiErr.Detail)
	assert.False(t, IsUnauthorized(err))
}

func TestChat_ValidationDetailList(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","prompt"],"msg":"too short"}]}`))
	})

	_, err := New(srv.URL, StaticToken("t")).Chat(context.Background(), ChatRequest{Prompt: "x", AgentType: "simple"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Detail, "too short")
}

func TestErrorFromResponse_TruncatesOnRuneBoundary(t *testing.T) {
	for _, r := range []string{"é", "日"} {
		body, err := json.Marshal(map[string]string{"detail": strings.Repeat(r, 600)})
		require.NoError(t, err)

		var apiErr *APIError
		require.ErrorAs(t, errorFromResponse(http.StatusBadGateway, body), &apiErr)
		assert.True(t, utf8.ValidString(apiErr.Detail), "detail for %q is valid UTF-8", r)
		assert.True(t, strings.HasSuffix(apiErr.Detail, "..."))
		assert.Less(t, len(apiErr.Detail), 600*len(r))
	}
}

func TestChat_LocalValidation(t *testing.T) {
	client := New("http://127.0.0.1:1", StaticToken("t"))

	_, err := client.Chat(context.Background(), ChatRequest{Prompt: "   \n"})
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = client.Chat(context.Background(), ChatRequest{Prompt: strings.Repeat("a", MaxPromptRunes+1)})
	assert.ErrorIs(t, err, ErrPromptTooLong)
}

func TestChat_RequiresToken(t *testing.T) {
	client := New("http://127.0.0.1:1", StaticToken(""))
	_, err := client.Chat(context.Background(), ChatRequest{Prompt: "hi", AgentType: "simple"})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestChat_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, StaticToken("t")).Chat(context.Background(), ChatRequest{Prompt: "hi", AgentType: "simple"})
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestChat_Timeout(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})

	client := New(srv.URL, StaticToken("t")).WithTimeout(50 * time.Millisecond)
	_, err := client.Chat(context.Background(), ChatRequest{Prompt: "hi", AgentType: "simple"})
	assert.Error(t, err)
}

func TestFeedback(t *testing.T) {
	var got FeedbackRequest
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathFeedback, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`whatever, ignored`))
	})

	err := New(srv.URL, StaticToken("t")).Feedback(context.Background(), FeedbackRequest{MessageID: 3, IsPositive: true})
	require.NoError(t, err)
	assert.Equal(t, 3, got.MessageID)
	assert.True(t, got.IsPositive)
}

func TestFeedback_Throttled(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	client := New(srv.URL, StaticToken("t")).WithFeedbackLimit(0.001, 1)
	require.NoError(t, client.Feedback(context.Background(), FeedbackRequest{MessageID: 1}))
	assert.ErrorIs(t, client.Feedback(context.Background(), FeedbackRequest{MessageID: 1}), ErrFeedbackThrottled)
}

func TestMe_Unauthorized(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	})

	_, err := New(srv.URL, StaticToken("stale")).Me(context.Background())
	assert.True(t, IsUnauthorized(err))
}

func TestLogin_PostsForm(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathToken, r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "pw", r.PostForm.Get("password"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	})

	tok, err := New(srv.URL, nil).Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
}

func TestLogin_MissingToken(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	_, err := New(srv.URL, nil).Login(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var reg RegisterRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reg))
		w.Write([]byte(`{"id":7,"email":"` + reg.Email + `","username":"` + reg.Username + `"}`))
	})

	user, err := New(srv.URL, nil).Register(context.Background(), RegisterRequest{Email: "a@b.c", Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, UserID("7"), user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestUserID_StringOrNumber(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"42","username":"bob"}`), &u))
	assert.Equal(t, UserID("42"), u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":42}`), &u))
	assert.Equal(t, UserID("42"), u.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &u))
}

// TestClient_Concurrent runs many requests through one client.
// Run with: go test -race ./internal/apiclient/
func TestClient_Concurrent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"ok"}`))
	})
	client := New(srv.URL, StaticToken("t"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Chat(context.Background(), ChatRequest{Prompt: "hi", AgentType: "simple"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
