package session

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gallery/pkg/httpx"
)

// CookieName carries the session id.
const CookieName = "SESSION"

type idKey struct{}

// IDFromContext returns the session id resolved for the request, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey{}).(string)
	return id, ok
}

// Middleware resolves the session cookie into an identity. Requests without
// a live session continue unauthenticated; a stale cookie is cleared.
func Middleware(store *Store, secure bool, now func() time.Time) httpx.Middleware {
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := store.Get(c.Value, now())
			if err != nil {
				http.SetCookie(w, ClearCookie(secure))
				next.ServeHTTP(w, r)
				return
			}

			ctx := httpx.WithIdentity(r.Context(), &httpx.Identity{
				Subject: sess.Subject,
				Roles:   sess.Roles,
				Source:  "session",
			})
			ctx = context.WithValue(ctx, idKey{}, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Cookie builds the session cookie. It has no Max-Age, so it ends with the
// browser session; the server enforces the idle TTL.
func Cookie(sess Session, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie deletes the session cookie.
func ClearCookie(secure bool) *http.Cookie {
	return httpx.ClearCookie(CookieName, secure)
}
