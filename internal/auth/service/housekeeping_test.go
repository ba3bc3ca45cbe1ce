package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/gallery/internal/auth/guard"
	"github.com/aussiebroadwan/gallery/internal/auth/service"
	"github.com/aussiebroadwan/gallery/internal/auth/session"
	"github.com/aussiebroadwan/gallery/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeeping_Cleanup(t *testing.T) {
	sessions := session.NewStore(time.Minute)
	_, err := sessions.Create("u1", []string{"USER"}, t0)
	require.NoError(t, err)
	_, err = sessions.Create("u2", []string{"USER"}, t0.Add(2*time.Minute))
	require.NoError(t, err)

	limiter := guard.NewKeyed(guard.Config{})
	limiter.RegisterFailure("bob", t0)
	for range guard.DefaultMaxAttempts {
		limiter.RegisterFailure("mallory", t0.Add(2*time.Minute))
	}

	hk := service.NewHousekeepingService(sessions, limiter, slogx.Discard(), time.Minute)
	hk.Now = func() time.Time { return t0.Add(2 * time.Minute) }

	removedSessions, removedLimiters := hk.Cleanup()
	require.Equal(t, 1, removedSessions)
	require.Equal(t, 1, removedLimiters, "locked identity must survive")
	require.Equal(t, 1, sessions.Len())
	require.Equal(t, 1, limiter.Len())
}

func TestHousekeeping_GlobalLimiterSkipped(t *testing.T) {
	hk := service.NewHousekeepingService(session.NewStore(0), nil, slogx.Discard(), 0)
	require.Equal(t, service.DefaultHousekeepingInterval, hk.Interval)

	s, l := hk.Cleanup()
	require.Zero(t, s)
	require.Zero(t, l)
}

func TestHousekeeping_StartStop(t *testing.T) {
	hk := service.NewHousekeepingService(session.NewStore(0), nil, slogx.Discard(), 10*time.Millisecond)
	hk.Start()
	time.Sleep(25 * time.Millisecond)
	hk.Stop()
}
