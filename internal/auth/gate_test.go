// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/storage"
)

// backend is a tiny stand-in for the identity endpoints.
type backend struct {
	validToken string
	down       bool
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if b.down {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	switch r.URL.Path {
	case apiclient.PathToken:
		_ = r.ParseForm()
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		json.NewEncoder(w).Encode(apiclient.Token{AccessToken: b.validToken, TokenType: "bearer"})
	case apiclient.PathRegister:
		w.Write([]byte(`{"id":2,"email":"a@b.c","username":"alice"}`))
	case apiclient.PathMe:
		if r.Header.Get("Authorization") != "Bearer "+b.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(apiclient.User{ID: "1", Email: "alice@example.com", Username: "alice"})
	default:
		http.NotFound(w, r)
	}
}

func setup(t *testing.T, b *backend) (*Gate, *storage.Store) {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	store, err := storage.Open(storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	gate := NewGate(store)
	gate.Attach(apiclient.New(srv.URL, gate))
	return gate, store
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestInit_NoToken(t *testing.T) {
	gate, _ := setup(t, &backend{validToken: "good"})

	assert.True(t, gate.Loading())
	assert.Equal(t, RouteLoading, gate.Resolve(RouteDashboard))

	assert.ErrorIs(t, gate.Init(context.Background()), ErrNoToken)
	assert.False(t, gate.Loading())
	assert.False(t, gate.Authenticated())
	assert.Equal(t, RouteLogin, gate.Resolve(RouteDashboard))
	assert.Equal(t, RouteLogin, gate.Resolve(RouteLogin))
}

func TestInit_ValidToken(t *testing.T) {
	ctx := context.Background()
	gate, store := setup(t, &backend{validToken: "good"})
	require.NoError(t, store.Set(ctx, storage.KeyToken, "good"))

	require.NoError(t, gate.Init(ctx))

	user, ok := gate.User()
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "good", gate.Token())
	assert.Equal(t, RouteDashboard, gate.Resolve(RouteLogin))
	assert.Equal(t, RouteDashboard, gate.Resolve(RouteDashboard))
}

func TestInit_RejectedTokenIsCleared(t *testing.T) {
	ctx := context.Background()
	gate, store := setup(t, &backend{validToken: "good"})
	require.NoError(t, store.Set(ctx, storage.KeyToken, "stale"))

	assert.ErrorIs(t, gate.Init(ctx), ErrUnauthorized)
	assert.False(t, gate.Authenticated())
	assert.Empty(t, gate.Token())

	_, err := store.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInit_ExpiredJWTClearedWithoutNetwork(t *testing.T) {
	ctx := context.Background()
	b := &backend{down: true}
	gate, store := setup(t, b)
	require.NoError(t, store.Set(ctx, storage.KeyToken, signed(t, time.Now().Add(-time.Minute))))

	assert.ErrorIs(t, gate.Init(ctx), ErrTokenExpired)
	_, err := store.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInit_BackendDownKeepsToken(t *testing.T) {
	ctx := context.Background()
	gate, store := setup(t, &backend{down: true})
	require.NoError(t, store.Set(ctx, storage.KeyToken, "maybe-good"))

	err := gate.Init(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.False(t, gate.Authenticated())
	assert.Equal(t, "maybe-good", store.GetOr(ctx, storage.KeyToken, ""))
}

func TestLogin_StoresTokenAndIdentity(t *testing.T) {
	ctx := context.Background()
	token := signed(t, time.Now().Add(30*time.Minute))
	gate, store := setup(t, &backend{validToken: token})
	_ = gate.Init(ctx)

	user, err := gate.Login(ctx, " alice ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, token, store.GetOr(ctx, storage.KeyToken, ""))
	assert.Equal(t, RouteDashboard, gate.Resolve(RouteLogin))
	assert.Equal(t, "alice", TokenSubject(gate.Token()))
}

func TestLogin_BadCredentials(t *testing.T) {
	ctx := context.Background()
	gate, store := setup(t, &backend{validToken: "good"})
	_ = gate.Init(ctx)

	_, err := gate.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, gate.Authenticated())
	_, err = store.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = gate.Login(ctx, "  ", "x")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestRegister_LogsIn(t *testing.T) {
	gate, _ := setup(t, &backend{validToken: "good"})
	user, err := gate.Register(context.Background(), "a@b.c", "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, gate.Authenticated())
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	gate, store := setup(t, &backend{validToken: "good"})
	_, err := gate.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, gate.Logout(ctx))
	assert.False(t, gate.Authenticated())
	assert.Empty(t, gate.Token())
	_, err = store.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, RouteLogin, gate.Resolve(RouteDashboard))
}

func TestGate_NotAttached(t *testing.T) {
	store, err := storage.Open(storage.MemoryPath)
	require.NoError(t, err)
	defer store.Close()

	gate := NewGate(store)
	assert.ErrorIs(t, gate.Init(context.Background()), ErrNotAttached)
	assert.False(t, gate.Loading(), "Init always leaves the loading state")
}

func TestResolve_ProtectsOtherRoutes(t *testing.T) {
	gate, _ := setup(t, &backend{validToken: "good"})
	_ = gate.Init(context.Background())
	assert.Equal(t, RouteLogin, gate.Resolve(Route("/models")))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := TokenExpiry(signed(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
	assert.False(t, TokenExpired("opaque-token", time.Now()))
	assert.True(t, TokenExpired(signed(t, time.Now().Add(-time.Second)), time.Now()))
	assert.True(t, strings.Count(signed(t, exp), ".") == 2)
}
