package policy

import (
	"net/http"

	"github.com/aussiebroadwan/gallery/pkg/httpx"
	"github.com/aussiebroadwan/gallery/pkg/slogx"
)

// Enforce evaluates every request against t using the identity left in the
// context by the surface's authn middleware. Allowed requests pass through;
// denied ones are handed to resp and go no further.
func Enforce(t *Table, resp Responder) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := httpx.IdentityFromContext(r.Context())

			d := t.Evaluate(r.Method, r.URL.Path, id)
			if d.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			attrs := []any{
				"table", t.Name(),
				"method", r.Method,
				"path", r.URL.Path,
				"reason", string(d.Reason),
			}
			if d.Rule != nil {
				attrs = append(attrs, "rule", d.Rule.String())
			}
			if id != nil {
				attrs = append(attrs, "subject", id.Subject)
			}
			slogx.FromContext(r.Context()).Info("request denied", attrs...)

			resp.Deny(w, r, d)
		})
	}
}
