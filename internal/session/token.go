package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// Claims is the token payload. The access code travels sealed, so the token
// can sit in a browser cookie without exposing it.
type Claims struct {
	Sealed string `json:"cred"`
	jwt.RegisteredClaims
}

// TokenCodec turns sessions into signed, expiring tokens and back.
type TokenCodec struct {
	signKey []byte
	sealKey [32]byte
	now     func() time.Time
}

// NewTokenCodec derives the signing and sealing keys from secret.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret cannot be empty")
	}

	c := &TokenCodec{now: time.Now}
	c.signKey = make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("jobfr session signing")), c.signKey); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("jobfr session sealing")), c.sealKey[:]); err != nil {
		return nil, fmt.Errorf("failed to derive sealing key: %w", err)
	}
	return c, nil
}

// WithClock returns a copy of the codec that validates against now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// Encode signs s into a token that expires with the session.
func (c *TokenCodec) Encode(s *Session) (string, error) {
	if s == nil || s.Credential == "" {
		return "", ErrNoSession
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(s.Credential), &nonce, &c.sealKey)

	claims := &Claims{
		Sealed: base64.RawURLEncoding.EncodeToString(sealed),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			NotBefore: jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Decode validates a token and recovers its session. Expired tokens return
// ErrSessionExpired.
func (c *TokenCodec) Decode(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrNoSession
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.signKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrSessionExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	sealed, err := base64.RawURLEncoding.DecodeString(claims.Sealed)
	if err != nil || len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("malformed sealed credential")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &c.sealKey)
	if !ok {
		return nil, fmt.Errorf("failed to open sealed credential")
	}

	s := &Session{Credential: string(plain)}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.UTC()
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.UTC()
	}
	return s, nil
}
