package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenCodec_EmptySecret(t *testing.T) {
	_, err := NewTokenCodec("")
	require.Error(t, err)
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec, err := NewTokenCodec("test-secret")
	require.NoError(t, err)

	s := New("open-sesame", time.Now(), time.Hour)
	token, err := codec.Encode(s)
	require.NoError(t, err)
	assert.NotContains(t, token, "open-sesame")

	got, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "open-sesame", got.Credential)
	assert.WithinDuration(t, s.ExpiresAt, got.ExpiresAt, time.Second)
	assert.WithinDuration(t, s.IssuedAt, got.IssuedAt, time.Second)
}

func TestTokenCodec_Expired(t *testing.T) {
	codec, err := NewTokenCodec("test-secret")
	require.NoError(t, err)

	issued := time.Now().Add(-3 * time.Hour)
	token, err := codec.Encode(New("code", issued, time.Hour))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The same token is still valid for a clock inside the window.
	_, err = codec.WithClock(func() time.Time { return issued.Add(30 * time.Minute) }).Decode(token)
	assert.NoError(t, err)
}

func TestTokenCodec_RejectsOtherSecretAndTampering(t *testing.T) {
	codec, err := NewTokenCodec("secret-a")
	require.NoError(t, err)
	other, err := NewTokenCodec("secret-b")
	require.NoError(t, err)

	token, err := codec.Encode(New("code", time.Now(), time.Hour))
	require.NoError(t, err)

	_, err = other.Decode(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	_, err = codec.Decode(parts[0] + "." + parts[1] + "x." + parts[2])
	require.Error(t, err)

	_, err = codec.Decode("")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCookieStore_RoundTrip(t *testing.T) {
	codec, err := NewTokenCodec("test-secret")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/access", nil)
	g := NewGate(NewCookieStore(codec, rec, req, CookieOptions{}), time.Hour)
	assert.False(t, g.Present())
	require.NoError(t, g.Set("open-sesame"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// Next request carries the cookie.
	next := httptest.NewRequest(http.MethodGet, "/admin", nil)
	next.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	g2 := NewGate(NewCookieStore(codec, rec2, next, CookieOptions{}), time.Hour)
	cred, err := g2.Credential()
	require.NoError(t, err)
	assert.Equal(t, "open-sesame", cred)

	require.NoError(t, g2.Clear())
	cleared := rec2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestCookieStore_InvalidCookieIsNoSession(t *testing.T) {
	codec, err := NewTokenCodec("test-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "garbage"})
	store := NewCookieStore(codec, httptest.NewRecorder(), req, CookieOptions{})

	s, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}
