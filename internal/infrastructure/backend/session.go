package backend

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens is the access/refresh pair issued by /token/.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Session holds the tokens of one dashboard user. Safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	tokens Tokens

	// refreshing serializes refreshes so concurrent 401s trigger one call
	refreshing sync.Mutex
	onRefresh  func(Tokens)
}

// NewSession creates a session from a token pair. The refresh token may
// be empty, in which case a rejected access token ends the session.
func NewSession(tokens Tokens) *Session {
	return &Session{tokens: tokens}
}

// OnRefresh registers fn to be called with the new pair after every
// successful refresh. Calls are serialized.
func (s *Session) OnRefresh(fn func(Tokens)) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = fn
	return s
}

// Tokens returns the current token pair.
func (s *Session) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	return s.Tokens().Access
}

func (s *Session) canRefresh() bool {
	return s.Tokens().Refresh != ""
}

// ExpiresWithin reports whether the access token expires in less than d.
// Tokens without a readable exp claim are assumed valid.
func (s *Session) ExpiresWithin(d time.Duration, now time.Time) bool {
	exp, ok := TokenExpiry(s.AccessToken())
	if !ok {
		return false
	}
	return exp.Sub(now) < d
}

// TokenExpiry reads the exp claim of a JWT without verifying its
// signature. The backend is the only party that verifies its tokens; the
// client only uses exp to refresh ahead of time.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
