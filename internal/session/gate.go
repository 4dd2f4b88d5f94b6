package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Smithk0/job-fr/internal/backend"
)

// Gate decides whether the admin surface is usable. It loads the session from
// its store once, on creation, and writes every change straight through.
type Gate struct {
	mu      sync.RWMutex
	store   Store
	ttl     time.Duration
	now     func() time.Time
	session *Session
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithClock sets the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// NewGate loads the current session from store. A store that cannot be read
// is treated as holding no session.
func NewGate(store Store, ttl time.Duration, opts ...GateOption) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	g := &Gate{store: store, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}

	s, err := store.Load()
	if err != nil {
		log.Printf("[session] failed to load session: %v", err)
		return g
	}
	if s != nil && s.Credential != "" && !s.Expired(g.now()) {
		g.session = s
	}
	return g
}

// Set stores code as the current credential. An empty code clears the session.
// The code is not checked here; see Login.
func (g *Gate) Set(code string) error {
	if code == "" {
		return g.Clear()
	}
	s := New(code, g.now(), g.ttl)
	if err := g.store.Save(s); err != nil {
		return err
	}

	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
	return nil
}

// Clear removes the session from memory and from the store.
func (g *Gate) Clear() error {
	g.mu.Lock()
	g.session = nil
	g.mu.Unlock()
	return g.store.Clear()
}

// Session returns a copy of the current session, or nil when there is none or
// it has expired.
func (g *Gate) Session() *Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil || g.session.Expired(g.now()) {
		return nil
	}
	s := *g.session
	return &s
}

// Credential returns the access code to send with authenticated calls.
func (g *Gate) Credential() (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return "", ErrNoSession
	}
	if g.session.Expired(g.now()) {
		return "", ErrSessionExpired
	}
	return g.session.Credential, nil
}

// Present reports whether a usable session exists.
func (g *Gate) Present() bool {
	return g.Session() != nil
}

// Verifier checks an access code with the backend.
type Verifier interface {
	VerifyAccessCode(ctx context.Context, code string) (*backend.Ack, error)
}

// Login verifies code with the backend and, when accepted, stores it in the
// gate. It returns the backend's acknowledgement message.
func Login(ctx context.Context, v Verifier, g *Gate, code string) (string, error) {
	code = strings.TrimSpace(code)
	ack, err := v.VerifyAccessCode(ctx, code)
	if err != nil {
		return "", err
	}
	if err := g.Set(code); err != nil {
		return "", err
	}
	if ack == nil {
		return "", nil
	}
	return ack.Message, nil
}
