package service

import (
	"log/slog"
	"time"
)

// DefaultHousekeepingInterval is used when no interval is configured.
const DefaultHousekeepingInterval = 5 * time.Minute

// SessionSweeper drops expired browser sessions.
type SessionSweeper interface {
	Sweep(now time.Time) int
}

// LimiterPruner forgets per-identity lockout state that has been idle.
type LimiterPruner interface {
	Prune(now time.Time, idle time.Duration) int
}

// HousekeepingService periodically drops expired sessions and idle lockout
// entries so the in-memory state does not grow without bound.
type HousekeepingService struct {
	Sessions SessionSweeper
	Limiter  LimiterPruner // nil when the lockout is global
	Logger   *slog.Logger
	Interval time.Duration

	// IdleAfter is how long an unlocked limiter entry must go without a
	// failure before it is pruned. Zero uses the interval.
	IdleAfter time.Duration

	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. A zero or negative interval uses DefaultHousekeepingInterval.
func NewHousekeepingService(sessions SessionSweeper, limiter LimiterPruner, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HousekeepingService{
		Sessions: sessions,
		Limiter:  limiter,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts the worker down and waits for an in-progress pass to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs a single housekeeping pass and reports what it removed.
func (s *HousekeepingService) Cleanup() (sessions, limiters int) {
	now := s.Now()

	if s.Sessions != nil {
		sessions = s.Sessions.Sweep(now)
	}

	if s.Limiter != nil {
		idle := s.IdleAfter
		if idle <= 0 {
			idle = s.Interval
		}
		limiters = s.Limiter.Prune(now, idle)
	}

	s.Logger.Debug("housekeeping cleanup completed",
		"sessions_removed", sessions,
		"limiters_removed", limiters,
	)
	return sessions, limiters
}
