package policy

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/gallery/pkg/httpx"
)

// Responder writes the response for a denied request.
type Responder interface {
	Deny(w http.ResponseWriter, r *http.Request, d Decision)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(w http.ResponseWriter, r *http.Request, d Decision)

func (f ResponderFunc) Deny(w http.ResponseWriter, r *http.Request, d Decision) { f(w, r, d) }

// APIResponder answers denials on the stateless surface with a JSON body.
// Unauthenticated requests and unmatched paths get 401, authenticated
// requests lacking a role get 403. It never redirects and never creates a
// session.
type APIResponder struct{}

type denialBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (APIResponder) Deny(w http.ResponseWriter, r *http.Request, d Decision) {
	status, code := http.StatusUnauthorized, "unauthorized"
	if d.Reason == ReasonForbidden {
		status, code = http.StatusForbidden, "forbidden"
	}

	httpx.WriteJSON(w, status, denialBody{
		Status:  "FAILURE",
		Message: fmt.Sprintf("%s: %s", d.Reason, r.URL.Path),
		Error:   code,
	})
}

// WebResponder answers denials on the browser surface. Anonymous visitors
// are redirected to LoginPath; signed-in users lacking a role get a bare 403.
type WebResponder struct {
	LoginPath string
}

func (wr WebResponder) Deny(w http.ResponseWriter, r *http.Request, d Decision) {
	if d.Reason == ReasonForbidden {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	login := wr.LoginPath
	if login == "" {
		login = "/login"
	}
	http.Redirect(w, r, login, http.StatusFound)
}
