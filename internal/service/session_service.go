package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"tempmonitor/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultTokenTTL is the fixed session lifetime. Tokens are not
	// renewable; clients re-authenticate for a fresh one.
	DefaultTokenTTL = 24 * time.Hour

	tokenBytes = 32 // 256 bits, hex-encoded to 64 chars
)

// ErrInvalidCredentials rejects a login that does not match the
// configured admin identity.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Reasons a token fails validation.
const (
	ReasonMissing = "missing"
	ReasonInvalid = "invalid"
	ReasonExpired = "expired"
)

// UnauthorizedError discriminates why a token was rejected.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	switch e.Reason {
	case ReasonMissing:
		return "missing token"
	case ReasonExpired:
		return "token expired"
	default:
		return "invalid token"
	}
}

// SessionService holds issued sessions in memory, keyed by token.
// Single writer per operation under mu; expiry is checked lazily on
// access, with an optional background sweep for memory pressure only.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]models.Session

	admin    AdminConfig
	tokenTTL time.Duration
	now      func() time.Time
}

var _ Sessions = (*SessionService)(nil)

func NewSessionService(admin AdminConfig) *SessionService {
	return &SessionService{
		sessions: make(map[string]models.Session),
		admin:    admin,
		tokenTTL: DefaultTokenTTL,
		now:      time.Now,
	}
}

// Login checks the credentials against the configured admin identity and
// issues a new session. Multiple concurrent sessions are allowed.
func (s *SessionService) Login(username, password string) (models.Session, error) {
	if !s.credentialsMatch(username, password) {
		return models.Session{}, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("issue token: %w", err)
	}

	sess := models.Session{
		Token:     token,
		Username:  username,
		ExpiresAt: s.now().Add(s.tokenTTL).UTC(),
	}

	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()

	return sess, nil
}

// Validate resolves a token to its session. An expired session is
// evicted on first access and never validates again.
func (s *SessionService) Validate(token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, &UnauthorizedError{Reason: ReasonMissing}
	}

	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return models.Session{}, &UnauthorizedError{Reason: ReasonInvalid}
	}
	if !sess.ExpiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return models.Session{}, &UnauthorizedError{Reason: ReasonExpired}
	}
	return sess, nil
}

// Revoke removes the session if present. Idempotent.
func (s *SessionService) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep evicts expired sessions on the given interval until ctx is
// canceled. Correctness does not depend on it; lazy eviction already
// guarantees expired tokens never validate.
func (s *SessionService) Sweep(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			now := s.now()
			s.mu.Lock()
			for token, sess := range s.sessions {
				if !sess.ExpiresAt.After(now) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *SessionService) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1

	if s.admin.PasswordHash != "" {
		passOK := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)) == nil
		return userOK && passOK
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	return userOK && passOK
}

// newToken draws a 256-bit token from crypto/rand, hex-encoded.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
