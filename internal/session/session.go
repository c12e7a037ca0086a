package session

import (
	"errors"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrNoToken indicates the session was built without a bearer token.
var ErrNoToken = errors.New("session has no token")

// Claims describes the JWT payload issued by the backend. The client
// only reads identity and expiry; signature verification is the
// backend's job on every request we send.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Session is the explicit per-login context that replaces ambient
// token/user globals. It is created on login, handed to the engine and
// channel adapter, and closed on logout.
type Session struct {
	token  string
	claims *Claims

	mu        sync.Mutex
	teardowns []func()
	closed    bool
}

// New builds a session from a bearer token. The token's claims are
// decoded without signature verification.
func New(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return &Session{token: token, claims: claims}, nil
}

// Token returns the bearer token for outbound requests.
func (s *Session) Token() string {
	return s.token
}

// UserID returns the authenticated user's id (the token subject).
func (s *Session) UserID() string {
	return s.claims.Subject
}

// UserName returns the display name claim, if present.
func (s *Session) UserName() string {
	return s.claims.Name
}

// Role returns the role claim, if present.
func (s *Session) Role() string {
	return s.claims.Role
}

// Expired reports whether the token's expiry has passed. Tokens without
// an expiry claim never expire client-side.
func (s *Session) Expired(now time.Time) bool {
	if s.claims.ExpiresAt == nil {
		return false
	}
	return now.After(s.claims.ExpiresAt.Time)
}

// OnClose registers a teardown hook. Hooks run on Close in reverse
// registration order, so the engine (registered after the channel it
// consumes) shuts down first.
func (s *Session) OnClose(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.teardowns = append(s.teardowns, fn)
	s.mu.Unlock()
}

// Close tears the session down. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	hooks := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}
