// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jeranaias/playground-tui/internal/apiclient"
	"github.com/jeranaias/playground-tui/internal/logging"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// SERVER
// =============================================================================

// Options configures a Server.
type Options struct {
	Addr           string
	Secret         string
	TokenTTL       time.Duration
	RequestTimeout time.Duration

	// BcryptCost for the user registry; zero uses the bcrypt default.
	BcryptCost int

	// Responders by agent type; nil uses DefaultResponders.
	Responders map[string]Responder

	Logger *zap.Logger
}

// Feedback is one recorded feedback event.
type Feedback struct {
	Username   string    `json:"username"`
	MessageID  int       `json:"message_id"`
	IsPositive bool      `json:"is_positive"`
	At         time.Time `json:"at"`
}

// Server is the development backend.
type Server struct {
	opts       Options
	users      *Users
	issuer     *Issuer
	responders map[string]Responder
	logger     *zap.Logger
	router     chi.Router

	mu       sync.Mutex
	feedback []Feedback
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, errors.New("devserver: a JWT secret is required")
	}
	if opts.Addr == "" {
		opts.Addr = ":8000"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.Responders == nil {
		opts.Responders = DefaultResponders()
	}

	s := &Server{
		opts:       opts,
		users:      NewUsers(opts.BcryptCost),
		issuer:     NewIssuer(opts.Secret, opts.TokenTTL),
		responders: opts.Responders,
		logger:     logging.OrNop(opts.Logger),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Users exposes the account registry, mainly for seeding.
func (s *Server) Users() *Users {
	return s.users
}

// AgentTypes lists the agent types with a responder.
func (s *Server) AgentTypes() []string {
	out := make([]string, 0, len(s.responders))
	for k := range s.responders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FeedbackLog returns a copy of the feedback received so far.
func (s *Server) FeedbackLog() []Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Feedback, len(s.feedback))
	copy(out, s.feedback)
	return out
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev backend listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown error", zap.Error(err))
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}

// =============================================================================
// ROUTES
// =============================================================================

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})
	r.Post("/register", s.handleRegister)
	r.Post("/token", s.handleToken)

	r.Group(func(gr chi.Router) {
		gr.Use(s.requireAuth)
		gr.Get("/users/me", s.handleMe)
		gr.Get("/users/me/", s.handleMe)
		gr.Route("/api/v1/chatbot", func(cr chi.Router) {
			cr.Post("/chat", s.handleChat)
			cr.Post("/feedback", s.handleFeedback)
		})
	})
	return r
}

// requestLogger logs one line per request through zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req apiclient.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, "value is not a valid email address")
		return
	}

	user, err := s.users.Register(req.Email, req.Username, req.Password)
	switch {
	case errors.Is(err, ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	case errors.Is(err, ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "Username already taken")
		return
	case err != nil:
		s.logger.Error("register failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	s.logger.Info("user registered", zap.String("username", user.Username))
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	if gt := r.PostForm.Get("grant_type"); gt != "" && gt != "password" {
		writeError(w, http.StatusBadRequest, "unsupported grant_type")
		return
	}

	user, err := s.users.Authenticate(r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		s.unauthorized(w, "Incorrect username, email, or password")
		return
	}
	token, err := s.issuer.Issue(user.Username)
	if err != nil {
		s.logger.Error("token signing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, apiclient.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.users.Lookup(usernameFrom(r.Context()))
	if !ok {
		s.unauthorized(w, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req apiclient.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n := utf8.RuneCountInString(req.Prompt)
	if n < 1 || n > apiclient.MaxPromptRunes {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("prompt must be between 1 and %d characters", apiclient.MaxPromptRunes))
		return
	}
	if req.AgentType == "" {
		req.AgentType = "simple"
	}
	responder, ok := s.responders[req.AgentType]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid agent type: %s", req.AgentType))
		return
	}

	reply, err := responder.Respond(r.Context(), req)
	if err != nil {
		s.logger.Error("responder failed", zap.String("agent_type", req.AgentType), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "chat failed")
		return
	}
	writeJSON(w, http.StatusOK, apiclient.ChatResponse{Response: reply, Metadata: req.Metadata})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req apiclient.FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MessageID < 0 {
		writeError(w, http.StatusUnprocessableEntity, "message_id must not be negative")
		return
	}

	fb := Feedback{
		Username:   usernameFrom(r.Context()),
		MessageID:  req.MessageID,
		IsPositive: req.IsPositive,
		At:         time.Now(),
	}
	s.mu.Lock()
	s.feedback = append(s.feedback, fb)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, apiclient.ErrorBody{Detail: detail})
}
