package policy_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/gallery/internal/auth/policy"
	"github.com/aussiebroadwan/gallery/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, method, path string, id *httpx.Identity) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if id != nil {
		req = req.WithContext(httpx.WithIdentity(req.Context(), id))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestEnforce_API(t *testing.T) {
	reached := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
		w.WriteHeader(http.StatusOK)
	})
	h := policy.Enforce(policy.APIRules(), policy.APIResponder{})(next)

	t.Run("public route passes", func(t *testing.T) {
		rec := serve(t, h, http.MethodGet, "/api/artists", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, reached)
	})

	t.Run("gated route returns 401 with reason and path", func(t *testing.T) {
		rec := serve(t, h, http.MethodPost, "/api/pictures", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, rec.Header().Get("Location"))
		require.Empty(t, rec.Result().Cookies())

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, "FAILURE", body["status"])
		require.Equal(t, "unauthenticated: /api/pictures", body["message"])
		require.Equal(t, "unauthorized", body["error"])
		require.Equal(t, 1, reached)
	})

	t.Run("missing role returns 403", func(t *testing.T) {
		rec := serve(t, h, http.MethodDelete, "/api/pictures/1", user)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "forbidden: /api/pictures/1")
	})

	t.Run("unmatched route returns 401", func(t *testing.T) {
		rec := serve(t, h, http.MethodGet, "/api/unknown", admin)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "no matching rule: /api/unknown")
	})
}

func TestEnforce_Web(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := policy.Enforce(policy.WebRules(), policy.WebResponder{})(next)

	rec := serve(t, h, http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	rec = serve(t, h, http.MethodGet, "/admin/users", user)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = serve(t, h, http.MethodGet, "/admin/users", admin)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestResponderFunc(t *testing.T) {
	var got policy.Decision
	resp := policy.ResponderFunc(func(w http.ResponseWriter, r *http.Request, d policy.Decision) {
		got = d
		w.WriteHeader(http.StatusTeapot)
	})
	h := policy.Enforce(policy.APIRules(), resp)(http.NotFoundHandler())

	rec := serve(t, h, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, policy.ReasonUnauthenticated, got.Reason)
	require.Equal(t, "/api/auth/logout", got.Rule.Pattern)
}
