// Package auth gates the dashboard API behind a single configured credential
// pair. Successful logins receive an opaque session token; every other API
// route requires a valid, unexpired token.
package auth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ErrInvalidCredentials is returned when the username/password pair does not
// match the configured credentials.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Session is an authenticated dashboard session.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service validates credentials and manages session tokens in memory.
type Service struct {
	username string
	password string
	ttl      time.Duration

	mu       sync.RWMutex
	sessions map[string]Session

	now func() time.Time
}

// NewService creates an auth Service for the configured credential pair.
func NewService(username, password string, ttl time.Duration) *Service {
	return &Service{
		username: username,
		password: password,
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Login checks the credentials and, on success, issues a new session.
func (s *Service) Login(username, password string) (Session, error) {
	if username != s.username || password != s.password {
		return Session{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := Session{
		Token:     uuid.New().String(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	log.WithField("username", username).Info("Session created")
	return session, nil
}

// Logout invalidates a session token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Validate reports whether a token belongs to a live session. Expired
// sessions are removed on first sight.
func (s *Service) Validate(token string) bool {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if s.now().UTC().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return false
	}
	return true
}

// TokenFromHeader extracts the bearer token from an Authorization header.
func TokenFromHeader(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
