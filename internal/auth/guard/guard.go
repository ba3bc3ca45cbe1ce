// Package guard implements the login lockout: after a run of failed
// attempts all further attempts are refused until the lock window passes.
package guard

import (
	"sync"
	"time"
)

const (
	// DefaultMaxAttempts is the number of consecutive failures that locks the guard.
	DefaultMaxAttempts = 3
	// DefaultLockDuration is how long a lock lasts once engaged.
	DefaultLockDuration = 10 * time.Minute
)

// Config tunes a guard. Zero values fall back to the defaults.
type Config struct {
	MaxAttempts  int
	LockDuration time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.LockDuration <= 0 {
		c.LockDuration = DefaultLockDuration
	}
	return c
}

// State is a point-in-time copy of a guard's counters.
type State struct {
	FailedAttempts int
	LockUntil      time.Time // zero while unlocked
	LastFailure    time.Time
}

// Locked reports whether the snapshot was taken while the lock was engaged.
func (s State) Locked() bool { return !s.LockUntil.IsZero() }

// Guard is a two-state (unlocked, locked) failure counter. Every method
// takes the same mutex, so check-then-act sequences from concurrent logins
// cannot lose updates.
type Guard struct {
	cfg Config

	mu    sync.Mutex
	state State
}

// New returns an unlocked guard.
func New(cfg Config) *Guard {
	return &Guard{cfg: cfg.withDefaults()}
}

// RegisterFailure records a failed attempt at now and reports whether this
// call engaged the lock. It is a no-op while locked: repeated failures do
// not extend the lock.
func (g *Guard) RegisterFailure(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Locked() {
		return false
	}

	g.state.FailedAttempts++
	g.state.LastFailure = now
	if g.state.FailedAttempts >= g.cfg.MaxAttempts {
		g.state.LockUntil = now.Add(g.cfg.LockDuration)
		return true
	}
	return false
}

// IsBlocked reports whether attempts are currently refused. Once now is past
// the lock deadline the guard resets itself and reports false.
func (g *Guard) IsBlocked(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.state.Locked() {
		return false
	}
	if now.After(g.state.LockUntil) {
		g.state = State{}
		return false
	}
	return true
}

// Reset unlocks the guard and zeroes the counter.
func (g *Guard) Reset() {
	g.mu.Lock()
	g.state = State{}
	g.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (g *Guard) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// idleSince reports whether the guard has been untouched since before cutoff
// and holds no active lock at now.
func (g *Guard) idleSince(cutoff, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Locked() && !now.After(g.state.LockUntil) {
		return false
	}
	return g.state.LastFailure.Before(cutoff)
}
