package httpx

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/gallery/pkg/jwtx"
)

// TokenCookie builds the cookie that carries tok. The cookie lives exactly
// as long as the token and is never readable from scripts.
func TokenCookie(tok jwtx.Token, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     tok.Kind.CookieName(),
		Value:    tok.Raw,
		Path:     "/",
		MaxAge:   int(tok.Kind.Lifetime() / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a deletion cookie for name (sent as Max-Age=0).
func ClearCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
