// Package metrics holds the Prometheus collectors for the auth service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Login outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeLocked  = "locked"
	OutcomeError   = "error"
)

var (
	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_auth_logins_total",
			Help: "Login attempts",
		},
		[]string{"surface", "outcome"},
	)

	// LockoutsTotal counts transitions into the locked state.
	LockoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_auth_lockouts_total",
			Help: "Login lockouts engaged",
		},
	)

	// RefreshesTotal counts refresh attempts by outcome.
	RefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_auth_refreshes_total",
			Help: "Access token refreshes",
		},
		[]string{"outcome"},
	)

	// TokenRejectionsTotal counts presented access tokens that failed verification.
	TokenRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_auth_token_rejections_total",
			Help: "Access tokens rejected by the request authenticator",
		},
	)

	// DenialsTotal counts authorization denials by surface and reason.
	DenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_auth_denials_total",
			Help: "Authorization denials",
		},
		[]string{"surface", "reason"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_auth_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"route"},
	)

	// ActiveSessions tracks live browser sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_auth_sessions_active",
			Help: "Active browser sessions",
		},
	)

	// RequestsTotal counts HTTP requests by surface, method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_auth_requests_total",
			Help: "Total requests",
		},
		[]string{"surface", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		LoginsTotal,
		LockoutsTotal,
		RefreshesTotal,
		TokenRejectionsTotal,
		DenialsTotal,
		RateLimitRejectedTotal,
		ActiveSessions,
		RequestsTotal,
	)
}
