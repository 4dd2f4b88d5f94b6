package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Smithk0/job-fr/internal/backend"
	"github.com/Smithk0/job-fr/internal/backend/backendtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestGate_SetPersistsAcrossReload(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			return &FileStore{Path: filepath.Join(t.TempDir(), "nested", "session.json")}
		},
	}

	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			store := mk(t)

			g := NewGate(store, time.Hour)
			assert.False(t, g.Present())
			require.NoError(t, g.Set("open-sesame"))
			assert.True(t, g.Present())

			reloaded := NewGate(store, time.Hour)
			require.True(t, reloaded.Present())
			cred, err := reloaded.Credential()
			require.NoError(t, err)
			assert.Equal(t, "open-sesame", cred)

			require.NoError(t, reloaded.Set(""))
			assert.False(t, reloaded.Present())

			again := NewGate(store, time.Hour)
			assert.False(t, again.Present())
			_, err = again.Credential()
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestGate_ClearRemovesSession(t *testing.T) {
	store := NewMemoryStore()
	g := NewGate(store, time.Hour)
	require.NoError(t, g.Set("code"))
	require.NoError(t, g.Clear())

	assert.Nil(t, g.Session())
	s, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestGate_Expiry(t *testing.T) {
	clock := newClock()
	store := NewMemoryStore()
	g := NewGate(store, 2*time.Hour, WithClock(clock.Now))
	require.NoError(t, g.Set("code"))

	s := g.Session()
	require.NotNil(t, s)
	assert.Equal(t, clock.Now(), s.IssuedAt)
	assert.Equal(t, clock.Now().Add(2*time.Hour), s.ExpiresAt)

	clock.Advance(2 * time.Hour)
	assert.False(t, g.Present())
	_, err := g.Credential()
	assert.ErrorIs(t, err, ErrSessionExpired)

	// An expired session loads as absent.
	reloaded := NewGate(store, 2*time.Hour, WithClock(clock.Now))
	_, err = reloaded.Credential()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestGate_CorruptFileLoadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	g := NewGate(&FileStore{Path: path}, time.Hour)
	assert.False(t, g.Present())
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := &FileStore{Path: path}
	require.NoError(t, store.Save(New("code", time.Now(), time.Hour)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSession_Remaining(t *testing.T) {
	now := time.Now()
	s := New("c", now, time.Hour)
	assert.Equal(t, time.Hour, s.Remaining(now))
	assert.Equal(t, time.Duration(0), s.Remaining(now.Add(2*time.Hour)))
	assert.False(t, (&Session{Credential: "c"}).Expired(now))
}

func TestLogin(t *testing.T) {
	b := backendtest.New("open-sesame")
	srv := b.Start(t)
	client, err := backend.New(srv.URL+"/api", nil)
	require.NoError(t, err)

	g := NewGate(NewMemoryStore(), time.Hour)

	_, err = Login(context.Background(), client, g, "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid access code", err.Error())
	assert.False(t, g.Present())

	msg, err := Login(context.Background(), client, g, "  open-sesame  ")
	require.NoError(t, err)
	assert.Equal(t, "Access granted", msg)
	cred, err := g.Credential()
	require.NoError(t, err)
	assert.Equal(t, "open-sesame", cred)
}
