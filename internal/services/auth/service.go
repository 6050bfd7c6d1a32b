package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/neu-balayan/pageantscore/internal/dependencies/clock"
	"github.com/neu-balayan/pageantscore/internal/dependencies/random"
	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/services/gate"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrUnknownGate    = errors.New("login form not open")
)

// SessionCookie is the cookie both the web UI and the API read the session
// token from
const SessionCookie = "session"

const (
	tokenLength   = 32
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Session represents an authenticated administrator session
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// pendingLogin is an open login form waiting for credentials
type pendingLogin struct {
	gate     *gate.Gate
	openedAt time.Time
}

// Service handles administrator login and session management
type Service struct {
	verifier gate.Verifier
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	pending  map[string]*pendingLogin

	sessionDuration time.Duration
	loginFormTTL    time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// LoginFormTTL is how long an opened login form stays usable
	LoginFormTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		LoginFormTTL:    30 * time.Minute,
	}
}

// New creates a new AuthService
func New(verifier gate.Verifier, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.LoginFormTTL == 0 {
		cfg.LoginFormTTL = DefaultConfig().LoginFormTTL
	}
	return &Service{
		verifier:        verifier,
		clock:           clock,
		random:          random,
		logger:          logger.With(slog.String("component", "auth")),
		sessions:        make(map[string]*Session),
		pending:         make(map[string]*pendingLogin),
		sessionDuration: cfg.SessionDuration,
		loginFormTTL:    cfg.LoginFormTTL,
	}
}

// BeginLogin opens a login form and returns the token identifying it
func (s *Service) BeginLogin() string {
	g := gate.New(s.verifier)
	_ = g.Open()

	token := s.generateID("gate_")
	s.mu.Lock()
	s.pending[token] = &pendingLogin{gate: g, openedAt: s.clock.Now()}
	s.mu.Unlock()

	return token
}

// LoginState returns the state and retained message of an open login form
func (s *Service) LoginState(gateToken string) (gate.State, string, error) {
	p := s.getPending(gateToken)
	if p == nil {
		return gate.StateClosed, "", ErrUnknownGate
	}
	return p.gate.State(), p.gate.Message(), nil
}

// SubmitLogin submits credentials to an open login form. On success the
// form is discarded and a session is created.
func (s *Service) SubmitLogin(ctx context.Context, gateToken, username, password string) (*Session, error) {
	p := s.getPending(gateToken)
	if p == nil {
		return nil, ErrUnknownGate
	}

	if err := s.submit(ctx, p.gate, username, password); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.pending, gateToken)
	s.mu.Unlock()

	return s.createSession(username), nil
}

// CancelLogin dismisses an open login form. A verification still in flight
// for it resolves into nothing.
func (s *Service) CancelLogin(gateToken string) {
	s.mu.Lock()
	p, ok := s.pending[gateToken]
	delete(s.pending, gateToken)
	s.mu.Unlock()

	if ok {
		_ = p.gate.Cancel()
	}
}

// Login verifies credentials in a single step and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	g := gate.New(s.verifier)
	_ = g.Open()

	if err := s.submit(ctx, g, username, password); err != nil {
		return nil, err
	}
	return s.createSession(username), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session (logout)
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	session, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		s.logger.Info("admin logged out", slog.String("username", session.Username))
	}
}

// CleanExpiredSessions removes expired sessions and stale login forms (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
	for token, p := range s.pending {
		if now.After(p.openedAt.Add(s.loginFormTTL)) {
			_ = p.gate.Cancel()
			delete(s.pending, token)
		}
	}
}

func (s *Service) submit(ctx context.Context, g *gate.Gate, username, password string) error {
	err := g.Submit(ctx, model.LoginAttempt{Identifier: username, Secret: password})
	switch {
	case err == nil:
		s.logger.Info("admin login accepted", slog.String("username", username))
	case errors.Is(err, model.ErrMissingInput), errors.Is(err, model.ErrInvalidCredentials):
		s.logger.Warn("admin login rejected",
			slog.String("username", username),
			slog.String("reason", err.Error()))
	default:
		s.logger.Info("admin login abandoned",
			slog.String("username", username),
			slog.String("reason", err.Error()))
	}
	return err
}

func (s *Service) getPending(gateToken string) *pendingLogin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[gateToken]
	if !ok || s.clock.Now().After(p.openedAt.Add(s.loginFormTTL)) {
		return nil
	}
	return p
}

// createSession creates a new session for the administrator
func (s *Service) createSession(username string) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     s.generateID("sess_"),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	return prefix + s.random.String(tokenLength, tokenAlphabet)
}
