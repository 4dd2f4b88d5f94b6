// Package session holds the admin access credential between requests and
// across process restarts. A Gate wraps one Session loaded from a Store.
package session

import (
	"errors"
	"time"
)

// DefaultTTL is how long a session lasts when no TTL is configured.
const DefaultTTL = 12 * time.Hour

var (
	// ErrNoSession is returned when no access code has been entered.
	ErrNoSession = errors.New("access code required")
	// ErrSessionExpired is returned when the stored session is past its expiry.
	ErrSessionExpired = errors.New("session expired")
)

// Session is an access code together with its validity window. The backend
// remains the authority on whether the code itself is accepted.
type Session struct {
	Credential string    `json:"credential"`
	IssuedAt   time.Time `json:"issuedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// New creates a session for credential issued at now and lasting ttl.
func New(credential string, now time.Time, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Session{
		Credential: credential,
		IssuedAt:   now.UTC(),
		ExpiresAt:  now.Add(ttl).UTC(),
	}
}

// Expired reports whether the session is no longer usable at now. A zero
// ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// Remaining returns the time left before expiry, or zero when expired.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
