package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/gallery/pkg/jwtx"
	"github.com/aussiebroadwan/gallery/pkg/slogx"
)

// AuthnConfig configures CookieAuthn.
type AuthnConfig struct {
	Verifier jwtx.Verifier

	// CookieName defaults to jwtx.AccessCookieName.
	CookieName string

	// Now defaults to time.Now.
	Now func() time.Time

	// OnFailure is called when a token was presented but did not verify.
	OnFailure func(r *http.Request, err error)
}

// CookieAuthn resolves the caller from the access token cookie (or, failing
// that, an "Authorization: Bearer" header) and attaches the identity to the
// request context.
//
// It never rejects a request. A missing, expired, malformed or wrong-kind
// token just means the request continues unauthenticated; whether that is
// acceptable is for the authorization policy to decide.
func CookieAuthn(cfg AuthnConfig) Middleware {
	if cfg.CookieName == "" {
		cfg.CookieName = jwtx.AccessCookieName
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r, cfg.CookieName)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := cfg.Verifier.Verify(raw, jwtx.KindAccess, cfg.Now())
			if err != nil {
				slogx.FromContext(r.Context()).Debug("access token rejected", "err", err)
				if cfg.OnFailure != nil {
					cfg.OnFailure(r, err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), &Identity{
				Subject: claims.Subject,
				Roles:   claims.Roles,
				Source:  "token",
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authz := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(authz, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
