package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/gallery/pkg/httpx"
	"github.com/aussiebroadwan/gallery/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestTokenCookie(t *testing.T) {
	c := httpx.TokenCookie(jwtx.Token{Raw: "abc", Kind: jwtx.KindAccess}, false)
	require.Equal(t, "AuthToken", c.Name)
	require.Equal(t, "abc", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, 300, c.MaxAge)
	require.True(t, c.HttpOnly)

	r := httpx.TokenCookie(jwtx.Token{Raw: "def", Kind: jwtx.KindRefresh}, true)
	require.Equal(t, "RefreshToken", r.Name)
	require.Equal(t, 7*24*60*60, r.MaxAge)
	require.True(t, r.Secure)
}

func TestClearCookieSerialisesMaxAgeZero(t *testing.T) {
	rec := httptest.NewRecorder()
	http.SetCookie(rec, httpx.ClearCookie(jwtx.AccessCookieName, false))

	header := rec.Header().Get("Set-Cookie")
	require.True(t, strings.HasPrefix(header, "AuthToken=;"), header)
	require.Contains(t, header, "Max-Age=0")
	require.Contains(t, header, "Path=/")
	require.Contains(t, header, "HttpOnly")
}

func TestChainOrderAndRecover(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := httpx.Chain(boom, httpx.Recover(), mark("a"), mark("b"))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	require.Equal(t, []string{"a", "b"}, order)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal server error")
}
