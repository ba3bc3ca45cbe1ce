package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gallery/internal/auth/metrics"
	"github.com/aussiebroadwan/gallery/internal/auth/service"
	"github.com/aussiebroadwan/gallery/internal/auth/session"
	"github.com/aussiebroadwan/gallery/pkg/slogx"
)

// WebHandler serves sign-in and sign-out for the browser surface.
type WebHandler struct {
	AuthService   *service.AuthService
	Sessions      *session.Store
	SecureCookies bool
	Now           func() time.Time
}

var pages = template.Must(template.New("login").Parse(`<!doctype html>
<html><head><title>Sign in</title></head>
<body>
{{if .Failed}}<p role="alert">Invalid username or password.</p>{{end}}
<form method="post" action="/login">
<label>Username <input name="username" autocomplete="username" required></label>
<label>Password <input name="password" type="password" autocomplete="current-password" required></label>
<button type="submit">Sign in</button>
</form>
</body></html>
`))

func renderLogin(w http.ResponseWriter, status int, failed bool) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = pages.Execute(w, struct{ Failed bool }{failed})
}

// HandleLoginPage serves GET /login.
func (h *WebHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderLogin(w, http.StatusOK, false)
}

// HandleLoginError serves GET /login-error, the page a failed sign-in lands on.
func (h *WebHandler) HandleLoginError(w http.ResponseWriter, r *http.Request) {
	renderLogin(w, http.StatusOK, true)
}

// HandleLoginSubmit serves POST /login. Success opens a session and
// redirects home; any failure redirects to /login-error.
func (h *WebHandler) HandleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login-error", http.StatusFound)
		return
	}

	now := h.Now()
	p, err := h.AuthService.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"), now)
	metrics.LoginsTotal.WithLabelValues("web", service.LoginOutcome(err)).Inc()
	if err != nil {
		http.Redirect(w, r, "/login-error", http.StatusFound)
		return
	}

	// Replace any session the browser already holds.
	if old, ok := session.IDFromContext(r.Context()); ok {
		h.Sessions.Delete(old)
	}

	sess, err := h.Sessions.Create(p.Subject, p.Roles, now)
	if err != nil {
		l.Error("failed to create session", slog.Any("error", err))
		http.Redirect(w, r, "/login-error", http.StatusFound)
		return
	}

	http.SetCookie(w, session.Cookie(sess, h.SecureCookies))
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleLogout serves POST /logout. Unlike the token surface, this ends the
// session on the server.
func (h *WebHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if id, ok := session.IDFromContext(r.Context()); ok {
		h.Sessions.Delete(id)
	}
	http.SetCookie(w, session.ClearCookie(h.SecureCookies))
	http.Redirect(w, r, "/login", http.StatusFound)
}
