// Package middleware provides HTTP middleware for sessions, request IDs and
// panic recovery.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Smithk0/job-fr/internal/session"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const (
	gateKey      ContextKey = "sessionGate"
	requestIDKey ContextKey = "requestID"
)

// SessionOptions configures the session middleware.
type SessionOptions struct {
	TTL    time.Duration
	Cookie session.CookieOptions
}

// Session creates middleware that decodes the session cookie into a Gate for
// the duration of the request. Handlers read it with GateFrom. It never
// rejects a request; whether a missing session blocks anything is up to the
// handler.
func Session(codec *session.TokenCodec, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := session.NewCookieStore(codec, w, r, opts.Cookie)
			gate := session.NewGate(store, opts.TTL)
			next.ServeHTTP(w, r.WithContext(WithGate(r.Context(), gate)))
		})
	}
}

// WithGate returns a context carrying gate.
func WithGate(ctx context.Context, gate *session.Gate) context.Context {
	return context.WithValue(ctx, gateKey, gate)
}

// GateFrom returns the request's Gate. Requests that did not pass through
// Session get an empty in-memory gate.
func GateFrom(r *http.Request) *session.Gate {
	if g, ok := r.Context().Value(gateKey).(*session.Gate); ok {
		return g
	}
	return session.NewGate(session.NewMemoryStore(), 0)
}
