package session_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/gallery/internal/auth/session"
	"github.com/aussiebroadwan/gallery/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestStore_SlidingExpiry(t *testing.T) {
	s := session.NewStore(10 * time.Minute)

	sess, err := s.Create("alice", []string{"USER"}, t0)
	require.NoError(t, err)
	require.Len(t, sess.ID, 43)
	require.Equal(t, t0.Add(10*time.Minute), sess.ExpiresAt)

	got, err := s.Get(sess.ID, t0.Add(9*time.Minute))
	require.NoError(t, err)
	require.Equal(t, "alice", got.Subject)
	require.Equal(t, t0.Add(19*time.Minute), got.ExpiresAt)

	_, err = s.Get(sess.ID, t0.Add(18*time.Minute))
	require.NoError(t, err)

	_, err = s.Get(sess.ID, t0.Add(28*time.Minute))
	require.ErrorIs(t, err, session.ErrNotFound)
	require.Zero(t, s.Len())
}

func TestStore_DeleteAndSweep(t *testing.T) {
	s := session.NewStore(time.Minute)

	a, err := s.Create("a", nil, t0)
	require.NoError(t, err)
	_, err = s.Create("b", nil, t0)
	require.NoError(t, err)
	_, err = s.Create("c", nil, t0.Add(time.Minute))
	require.NoError(t, err)

	s.Delete(a.ID)
	_, err = s.Get(a.ID, t0)
	require.ErrorIs(t, err, session.ErrNotFound)

	require.Equal(t, 1, s.Sweep(t0.Add(time.Minute)))
	require.Equal(t, 1, s.Len())
}

func TestStore_RolesAreCopied(t *testing.T) {
	s := session.NewStore(0)
	require.Equal(t, session.DefaultTTL, s.TTL())

	roles := []string{"USER"}
	sess, err := s.Create("alice", roles, t0)
	require.NoError(t, err)
	roles[0] = "ADMIN"

	got, err := s.Get(sess.ID, t0)
	require.NoError(t, err)
	require.Equal(t, []string{"USER"}, got.Roles)
}

func TestStore_Concurrent(t *testing.T) {
	s := session.NewStore(time.Minute)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, err := s.Create("x", nil, t0)
			if err != nil {
				return
			}
			_, _ = s.Get(sess.ID, t0)
			s.Sweep(t0)
		}()
	}
	wg.Wait()
	require.Equal(t, 50, s.Len())
}

func TestMiddleware(t *testing.T) {
	s := session.NewStore(time.Minute)
	now := t0
	mw := session.Middleware(s, false, func() time.Time { return now })

	var (
		id    *httpx.Identity
		sid   string
		found bool
	)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = httpx.IdentityFromContext(r.Context())
		sid, found = session.IDFromContext(r.Context())
	}))

	sess, err := s.Create("alice", []string{"USER"}, t0)
	require.NoError(t, err)

	t.Run("live session resolves identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(session.Cookie(sess, false))
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, id)
		require.Equal(t, "alice", id.Subject)
		require.Equal(t, "session", id.Source)
		require.True(t, found)
		require.Equal(t, sess.ID, sid)
	})

	t.Run("no cookie stays anonymous", func(t *testing.T) {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Nil(t, id)
		require.False(t, found)
	})

	t.Run("unknown session clears the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "forged"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Nil(t, id)
		require.Contains(t, rec.Header().Get("Set-Cookie"), "SESSION=;")
		require.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
	})
}
