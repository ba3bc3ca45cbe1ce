package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/gallery/pkg/authsdk"
	"github.com/aussiebroadwan/gallery/pkg/httpx"
	"github.com/aussiebroadwan/gallery/pkg/jwtx"
)

// LivezHandler always answers 200 while the process is running.
func LivezHandler(startTime time.Time, version string, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  now().Sub(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler answers 503 until the credential database answers a ping and
// the signing key is loaded.
func ReadyzHandler(
	startTime time.Time,
	version string,
	now func() time.Time,
	st Pinger,
	keys *jwtx.KeyManager,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if st == nil {
			checks.Database = "error: not configured"
			overallStatus, statusCode = "degraded", http.StatusServiceUnavailable
		} else if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: unreachable"
			overallStatus, statusCode = "degraded", http.StatusServiceUnavailable
		}

		if keys == nil || !keys.IsReady() {
			checks.Signer = "error: no key loaded"
			overallStatus, statusCode = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  now().Sub(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
