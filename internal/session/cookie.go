package session

import (
	"errors"
	"log"
	"net/http"
)

// DefaultCookieName names the session cookie.
const DefaultCookieName = "jobfr_session"

// CookieStore is a per-request Store backed by an HTTP cookie holding a token
// from a TokenCodec.
type CookieStore struct {
	codec  *TokenCodec
	w      http.ResponseWriter
	r      *http.Request
	name   string
	secure bool
}

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// NewCookieStore creates a store reading from r and writing to w.
func NewCookieStore(codec *TokenCodec, w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	name := opts.Name
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieStore{codec: codec, w: w, r: r, name: name, secure: opts.Secure}
}

// Load returns the session in the request cookie. A missing, tampered or
// expired cookie loads as no session.
func (c *CookieStore) Load() (*Session, error) {
	cookie, err := c.r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	s, err := c.codec.Decode(cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrSessionExpired) {
			log.Printf("[session] ignoring invalid session cookie: %v", err)
		}
		return nil, nil
	}
	return s, nil
}

func (c *CookieStore) Save(s *Session) error {
	if s == nil {
		return c.Clear()
	}
	token, err := c.codec.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *CookieStore) Clear() error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
