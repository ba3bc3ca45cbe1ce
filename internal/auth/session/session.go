// Package session keeps server-side sessions for the browser surface.
package session

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/aussiebroadwan/gallery/internal/auth/metrics"
	"github.com/aussiebroadwan/gallery/pkg/cryptox"
)

// DefaultTTL is the idle lifetime of a session.
const DefaultTTL = 30 * time.Minute

var ErrNotFound = errors.New("session: not found")

// Session is one signed-in browser.
type Session struct {
	ID        string
	Subject   string
	Roles     []string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is an in-memory session table. Sessions slide: every successful Get
// pushes ExpiresAt out by the TTL. Sessions are lost on restart.
type Store struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore returns an empty store. A non-positive ttl selects DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, sessions: make(map[string]*Session)}
}

// TTL returns the idle lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create opens a session for subject.
func (s *Store) Create(subject string, roles []string, now time.Time) (Session, error) {
	id, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return Session{}, err
	}

	sess := &Session{
		ID:        id,
		Subject:   subject,
		Roles:     slices.Clone(roles),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return copyOf(sess), nil
}

// Get returns the live session with id and extends it. Expired sessions are
// removed and reported as ErrNotFound.
func (s *Store) Get(id string, now time.Time) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if !now.Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
		return Session{}, ErrNotFound
	}

	sess.ExpiresAt = now.Add(s.ttl)
	return copyOf(sess), nil
}

// Delete ends the session with id. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
}

// Sweep removes every session expired at now and returns how many went.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func copyOf(s *Session) Session {
	out := *s
	out.Roles = slices.Clone(s.Roles)
	return out
}
