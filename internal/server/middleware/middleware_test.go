package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Smithk0/job-fr/internal/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_GateFromCookie(t *testing.T) {
	codec, err := session.NewTokenCodec("test-secret-value")
	require.NoError(t, err)
	token, err := codec.Encode(session.New("open-sesame", time.Now(), time.Hour))
	require.NoError(t, err)

	var cred string
	handler := Session(codec, SessionOptions{TTL: time.Hour})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred, _ = GateFrom(r).Credential()
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "open-sesame", cred)
}

func TestSession_NoCookieNoSession(t *testing.T) {
	codec, err := session.NewTokenCodec("test-secret-value")
	require.NoError(t, err)

	present := true
	handler := Session(codec, SessionOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		present = GateFrom(r).Present()
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.False(t, present)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateFrom_WithoutMiddleware(t *testing.T) {
	g := GateFrom(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, g)
	assert.False(t, g.Present())
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, incoming, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "<script>", seen)
}

func TestRecover(t *testing.T) {
	handler := Recover(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}
