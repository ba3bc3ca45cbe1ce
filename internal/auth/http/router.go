package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gallery/internal/auth/metrics"
	"github.com/aussiebroadwan/gallery/internal/auth/policy"
	"github.com/aussiebroadwan/gallery/internal/auth/service"
	"github.com/aussiebroadwan/gallery/internal/auth/session"
	"github.com/aussiebroadwan/gallery/pkg/httpx"
	"github.com/aussiebroadwan/gallery/pkg/jwtx"
	"github.com/aussiebroadwan/gallery/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the credential database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds the dependencies shared by the handlers.
type RouterConfig struct {
	Keys          *jwtx.KeyManager
	Codec         *jwtx.Codec
	Store         Pinger
	Sessions      *session.Store
	Policies      policy.Tables
	BuildVersion  string
	SecureCookies bool
	Logger        *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Router serves two trust surfaces from one listener. Requests under /api
// are authenticated per request from the AuthToken cookie; everything else
// is the browser surface backed by server sessions. Each surface is guarded
// by its own rule table.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys          *jwtx.KeyManager
	codec         *jwtx.Codec
	store         Pinger
	sessions      *session.Store
	policies      policy.Tables
	buildVersion  string
	secureCookies bool
	startTime     time.Time
	logger        *slog.Logger
	now           func() time.Time

	AuthService *service.AuthService
	UserService *service.UserService

	// APIResources serves the gallery resources under /api once the policy
	// has allowed the request. Nil answers 404.
	APIResources http.Handler

	// WebPages serves browser pages once the policy has allowed the request.
	// Nil answers 404.
	WebPages http.Handler
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Policies.API == nil || cfg.Policies.Web == nil {
		defaults := policy.Defaults()
		if cfg.Policies.API == nil {
			cfg.Policies.API = defaults.API
		}
		if cfg.Policies.Web == nil {
			cfg.Policies.Web = defaults.Web
		}
	}

	r := &Router{
		Mux:           http.NewServeMux(),
		keys:          cfg.Keys,
		codec:         cfg.Codec,
		store:         cfg.Store,
		sessions:      cfg.Sessions,
		policies:      cfg.Policies,
		buildVersion:  cfg.BuildVersion,
		secureCookies: cfg.SecureCookies,
		startTime:     cfg.Now(),
		logger:        cfg.Logger,
		now:           cfg.Now,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerAPI()
	r.registerWeb()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion, r.now))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.now, r.store, r.keys))
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}

func (r *Router) registerAPI() {
	h := &AuthHandler{
		AuthService:   r.AuthService,
		UserService:   r.UserService,
		SecureCookies: r.secureCookies,
		Now:           r.now,
	}

	api := http.NewServeMux()

	// Credential endpoints are rate limited by IP in front of the lockout.
	api.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin), rateLimit("login")),
	)
	api.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister), rateLimit("register")),
	)
	api.HandleFunc("POST /api/auth/refresh", h.HandleRefresh)
	api.HandleFunc("POST /api/auth/logout", h.HandleLogout)
	api.Handle("/api/", orNotFound(r.APIResources))

	r.Mux.Handle("/api/", httpx.Chain(api,
		metrics.Middleware("api"),
		httpx.CookieAuthn(httpx.AuthnConfig{
			Verifier:  r.codec,
			Now:       r.now,
			OnFailure: func(*http.Request, error) { metrics.TokenRejectionsTotal.Inc() },
		}),
		policy.Enforce(r.policies.API, countDenials("api", policy.APIResponder{})),
	))
}

func (r *Router) registerWeb() {
	h := &WebHandler{
		AuthService:   r.AuthService,
		Sessions:      r.sessions,
		SecureCookies: r.secureCookies,
		Now:           r.now,
	}

	web := http.NewServeMux()
	web.HandleFunc("GET /login", h.HandleLoginPage)
	web.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLoginSubmit), rateLimit("web_login")),
	)
	web.HandleFunc("GET /login-error", h.HandleLoginError)
	web.HandleFunc("POST /logout", h.HandleLogout)
	web.Handle("/", orNotFound(r.WebPages))

	r.Mux.Handle("/", httpx.Chain(web,
		metrics.Middleware("web"),
		session.Middleware(r.sessions, r.secureCookies, r.now),
		policy.Enforce(r.policies.Web, countDenials("web", policy.WebResponder{LoginPath: "/login"})),
	))
}

func rateLimit(route string) httpx.Middleware {
	return httpx.RateLimitByIP(httpx.StrictLimit, func(*http.Request) {
		metrics.RateLimitRejectedTotal.WithLabelValues(route).Inc()
	})
}

func countDenials(surface string, next policy.Responder) policy.Responder {
	return policy.ResponderFunc(func(w http.ResponseWriter, r *http.Request, d policy.Decision) {
		metrics.DenialsTotal.WithLabelValues(surface, string(d.Reason)).Inc()
		next.Deny(w, r, d)
	})
}

func orNotFound(h http.Handler) http.Handler {
	if h != nil {
		return h
	}
	return http.NotFoundHandler()
}
