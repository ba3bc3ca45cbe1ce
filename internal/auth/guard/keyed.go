package guard

import (
	"strings"
	"sync"
	"time"
)

// Scope selects how failures are counted.
type Scope string

const (
	// ScopeGlobal shares one counter across every identity in the process.
	ScopeGlobal Scope = "global"
	// ScopeIdentity keeps an independent counter per username.
	ScopeIdentity Scope = "identity"
)

// ParseScope maps a config string to a Scope. Unknown values select the
// global scope.
func ParseScope(s string) Scope {
	if Scope(strings.ToLower(strings.TrimSpace(s))) == ScopeIdentity {
		return ScopeIdentity
	}
	return ScopeGlobal
}

// Limiter is the lockout capability the authentication gateway depends on.
// key is the identity being authenticated; global limiters ignore it.
type Limiter interface {
	IsBlocked(key string, now time.Time) bool
	RegisterFailure(key string, now time.Time) bool
	Reset(key string)
}

// NewLimiter builds the limiter for scope.
func NewLimiter(scope Scope, cfg Config) Limiter {
	if scope == ScopeIdentity {
		return NewKeyed(cfg)
	}
	return Global{New(cfg)}
}

// Global adapts a single Guard to the Limiter interface.
type Global struct {
	*Guard
}

func (g Global) IsBlocked(_ string, now time.Time) bool       { return g.Guard.IsBlocked(now) }
func (g Global) RegisterFailure(_ string, now time.Time) bool { return g.Guard.RegisterFailure(now) }
func (g Global) Reset(string)                                 { g.Guard.Reset() }

// Keyed holds one Guard per key, created on first failure.
type Keyed struct {
	cfg Config

	mu     sync.Mutex
	guards map[string]*Guard
}

// NewKeyed returns an empty per-key limiter.
func NewKeyed(cfg Config) *Keyed {
	return &Keyed{
		cfg:    cfg.withDefaults(),
		guards: make(map[string]*Guard),
	}
}

func (k *Keyed) lookup(key string, create bool) *Guard {
	k.mu.Lock()
	defer k.mu.Unlock()

	g, ok := k.guards[key]
	if !ok && create {
		g = New(k.cfg)
		k.guards[key] = g
	}
	return g
}

func (k *Keyed) IsBlocked(key string, now time.Time) bool {
	g := k.lookup(key, false)
	return g != nil && g.IsBlocked(now)
}

func (k *Keyed) RegisterFailure(key string, now time.Time) bool {
	return k.lookup(key, true).RegisterFailure(now)
}

func (k *Keyed) Reset(key string) {
	k.mu.Lock()
	delete(k.guards, key)
	k.mu.Unlock()
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.guards)
}

// Prune drops guards with no failure since now-idle and no active lock.
// It returns the number removed.
func (k *Keyed) Prune(now time.Time, idle time.Duration) int {
	cutoff := now.Add(-idle)

	k.mu.Lock()
	defer k.mu.Unlock()

	removed := 0
	for key, g := range k.guards {
		if g.idleSince(cutoff, now) {
			delete(k.guards, key)
			removed++
		}
	}
	return removed
}
