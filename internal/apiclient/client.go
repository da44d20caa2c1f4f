// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/playground-tui/internal/logging"
	"github.com/jeranaias/playground-tui/internal/util"
)

// Configuration constants for the chatbot API.
const (
	// DefaultBaseURL is where the backend listens in local development.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024

	// MaxPromptRunes mirrors the backend's prompt length limit.
	MaxPromptRunes = 10_000

	// Endpoint paths.
	PathChat     = "/api/v1/chatbot/chat"
	PathFeedback = "/api/v1/chatbot/feedback"
	PathMe       = "/users/me"
	PathToken    = "/token"
	PathRegister = "/register"
	PathHealth   = "/health"

	userAgent = "playground-tui/1.0"

	// maxDetailWidth caps the error detail kept from a response body.
	maxDetailWidth = 512
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means "not logged in".
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() string { return string(s) }

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chatbot backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
	feedback   *rate.Limiter
}

// New creates a client for baseURL using tokens for authentication.
// tokens may be nil for unauthenticated calls (Login, Register, Health).
func New(baseURL string, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     tokens,
		logger:     zap.NewNop(),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// WithTimeout sets the request timeout. Zero disables it.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithLogger sets the logger used for request logging.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	c.logger = logging.OrNop(logger)
	return c
}

// WithFeedbackLimit caps feedback events at perSec with a burst of burst.
// A non-positive perSec disables the limit.
func (c *Client) WithFeedbackLimit(perSec float64, burst int) *Client {
	if perSec <= 0 {
		c.feedback = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.feedback = rate.NewLimiter(rate.Limit(perSec), burst)
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Chat sends one prompt with its history and returns the backend's reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if err := ValidatePrompt(req.Prompt); err != nil {
		return ChatResponse{}, err
	}
	if req.History == nil {
		req.History = []HistoryItem{}
	}
	defer logging.Duration(c.logger, "chat",
		zap.String("model", req.Model),
		zap.String("agent_type", req.AgentType),
		zap.Int("history", len(req.History)))()

	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, PathChat, req, &resp, true); err != nil {
		return ChatResponse{}, err
	}
	return resp, nil
}

// Feedback records a thumbs up/down for the message at req.MessageID.
// The response body is ignored.
func (c *Client) Feedback(ctx context.Context, req FeedbackRequest) error {
	if c.feedback != nil && !c.feedback.Allow() {
		return ErrFeedbackThrottled
	}
	return c.doJSON(ctx, http.MethodPost, PathFeedback, req, nil, true)
}

// Me returns the identity bound to the current token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, PathMe, nil, &user, true); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login exchanges a username and password for a bearer token using the
// OAuth2 password form the backend expects.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathToken, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	var tok Token
	if err := c.do(req, &tok); err != nil {
		return Token{}, err
	}
	if tok.AccessToken == "" {
		return Token{}, fmt.Errorf("login response missing access_token")
	}
	return tok, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPost, PathRegister, reg, &user, false); err != nil {
		return User{}, err
	}
	return user, nil
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, PathHealth, nil, nil, false)
}

// ValidatePrompt applies the backend's prompt constraints locally.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	if utf8.RuneCountInString(prompt) > MaxPromptRunes {
		return fmt.Errorf("%w: %d characters (max %d)", ErrPromptTooLong, utf8.RuneCountInString(prompt), MaxPromptRunes)
	}
	return nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if authed {
		token := ""
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// Keep the token out of anything that might log the request later.
	req.Header.Del("Authorization")

	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// errorFromResponse builds an APIError, pulling "detail" out of FastAPI
// style bodies. Validation errors carry a list there; it is kept as raw JSON.
func errorFromResponse(status int, body []byte) error {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	detail := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var s string
		if json.Unmarshal(envelope.Detail, &s) == nil {
			detail = s
		} else {
			detail = string(envelope.Detail)
		}
	}
	return &APIError{Status: status, Detail: util.Truncate(detail, maxDetailWidth)}
}
