// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/logging"
	"github.com/jeranaias/playground-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoToken means nothing is stored; the viewer is logged out.
	ErrNoToken = errors.New("no stored token")

	// ErrTokenExpired means the stored JWT is past its exp claim.
	ErrTokenExpired = errors.New("token expired")

	// ErrUnauthorized means the backend rejected the token or credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotAttached means Attach was never called.
	ErrNotAttached = errors.New("auth gate has no identity backend")

	// ErrMissingCredentials rejects a login with a blank username or password.
	ErrMissingCredentials = errors.New("username and password are required")
)

// Identity is the part of the API client the gate needs.
type Identity interface {
	Me(ctx context.Context) (apiclient.User, error)
	Login(ctx context.Context, username, password string) (apiclient.Token, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (apiclient.User, error)
}

// TokenStore persists the token between runs.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// =============================================================================
// GATE
// =============================================================================

// Gate is the application's session context: it owns the auth token and
// the current identity, and decides which routes are reachable. One Gate
// is created at startup and passed to whatever needs identity; the API
// client reads the bearer token from it on every request.
//
// A Gate starts in the loading state; call Init once to check the stored
// token.
type Gate struct {
	mu sync.RWMutex

	store    TokenStore
	identity Identity
	logger   *zap.Logger
	now      func() time.Time

	token   string
	user    *apiclient.User
	loading bool
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the gate's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gate) { g.logger = logging.OrNop(logger) }
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate creates a gate over store. The identity backend is attached
// separately because the API client itself takes the gate as its token
// source.
func NewGate(store TokenStore, opts ...Option) *Gate {
	g := &Gate{
		store:   store,
		logger:  zap.NewNop(),
		now:     time.Now,
		loading: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Attach sets the identity backend used by Init, Login and Register.
func (g *Gate) Attach(identity Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.identity = identity
}

// Token implements apiclient.TokenSource.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// User returns the authenticated identity.
func (g *Gate) User() (apiclient.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return apiclient.User{}, false
	}
	return *g.user, true
}

// Authenticated reports whether a validated identity is present.
func (g *Gate) Authenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.user != nil
}

// Loading reports whether Init has not finished yet.
func (g *Gate) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Init checks the stored token, the way a web client would on first
// render. The gate always leaves the loading state; the returned error
// explains why the viewer ended up logged out and is informational.
//
// A token the backend rejects (or a JWT already past exp) is removed from
// the store. A transport failure leaves it stored so a later run can
// retry.
func (g *Gate) Init(ctx context.Context) error {
	defer g.setLoading(false)

	identity, err := g.attached()
	if err != nil {
		return err
	}

	token, err := g.store.Get(ctx, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && strings.TrimSpace(token) == "") {
		return ErrNoToken
	}
	if err != nil {
		return fmt.Errorf("failed to read stored token: %w", err)
	}

	if TokenExpired(token, g.now()) {
		g.logger.Info("stored token expired; clearing")
		g.clear(ctx)
		return ErrTokenExpired
	}

	g.mu.Lock()
	g.token = token
	g.mu.Unlock()

	user, err := identity.Me(ctx)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			g.logger.Info("stored token rejected; clearing", zap.Error(err))
			g.clear(ctx)
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		g.logger.Warn("could not validate stored token", zap.Error(err))
		g.mu.Lock()
		g.token = ""
		g.mu.Unlock()
		return fmt.Errorf("failed to validate token: %w", err)
	}

	g.setUser(&user)
	g.logger.Info("session restored", zap.String("username", user.Username))
	return nil
}

// Login exchanges credentials for a token, stores it and loads the
// identity. On failure the gate is left logged out.
func (g *Gate) Login(ctx context.Context, username, password string) (apiclient.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return apiclient.User{}, ErrMissingCredentials
	}
	identity, err := g.attached()
	if err != nil {
		return apiclient.User{}, err
	}

	tok, err := identity.Login(ctx, username, password)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			return apiclient.User{}, fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
		}
		return apiclient.User{}, fmt.Errorf("login failed: %w", err)
	}

	g.mu.Lock()
	g.token = tok.AccessToken
	g.mu.Unlock()

	user, err := identity.Me(ctx)
	if err != nil {
		g.clear(ctx)
		return apiclient.User{}, fmt.Errorf("login succeeded but identity lookup failed: %w", err)
	}

	if err := g.store.Set(ctx, storage.KeyToken, tok.AccessToken); err != nil {
		// Still logged in for this run.
		g.logger.Warn("failed to persist token", zap.Error(err))
	}

	g.setUser(&user)
	g.setLoading(false)
	g.logger.Info("logged in", zap.String("username", user.Username))
	return user, nil
}

// Register creates an account and logs into it.
func (g *Gate) Register(ctx context.Context, email, username, password string) (apiclient.User, error) {
	identity, err := g.attached()
	if err != nil {
		return apiclient.User{}, err
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return apiclient.User{}, ErrMissingCredentials
	}
	if _, err := identity.Register(ctx, apiclient.RegisterRequest{
		Email:    strings.TrimSpace(email),
		Username: strings.TrimSpace(username),
		Password: password,
	}); err != nil {
		return apiclient.User{}, fmt.Errorf("registration failed: %w", err)
	}
	return g.Login(ctx, username, password)
}

// Logout forgets the token and identity, locally and in the store.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.RLock()
	name := ""
	if g.user != nil {
		name = g.user.Username
	}
	g.mu.RUnlock()

	err := g.clear(ctx)
	g.logger.Info("logged out", zap.String("username", name))
	return err
}

// Close ends the session context. The stored token is kept for the next
// run.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = ""
	g.user = nil
	g.identity = nil
}

// =============================================================================
// INTERNALS
// =============================================================================

func (g *Gate) attached() (Identity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.identity == nil {
		return nil, ErrNotAttached
	}
	return g.identity, nil
}

func (g *Gate) clear(ctx context.Context) error {
	g.mu.Lock()
	g.token = ""
	g.user = nil
	g.mu.Unlock()

	if err := g.store.Delete(ctx, storage.KeyToken); err != nil {
		g.logger.Warn("failed to delete stored token", zap.Error(err))
		return err
	}
	return nil
}

func (g *Gate) setUser(u *apiclient.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = u
}

func (g *Gate) setLoading(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loading = v
}
