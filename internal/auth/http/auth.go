package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/gallery/internal/auth/domain"
	"github.com/aussiebroadwan/gallery/internal/auth/service"
	"github.com/aussiebroadwan/gallery/pkg/httpx"
	"github.com/aussiebroadwan/gallery/pkg/jwtx"
)

const maxBodyBytes = 1 << 16

// AuthHandler serves the token endpoints of the stateless surface.
type AuthHandler struct {
	AuthService   *service.AuthService
	UserService   *service.UserService
	SecureCookies bool
	Now           func() time.Time
}

var errBadRequest = domain.Failure("Malformed request body", "invalid_request")

// HandleLogin serves POST /api/auth/login. On success both token cookies
// are set; on failure no cookie is touched.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeCredentials(w, r, &req.Username, &req.Password) {
		httpx.WriteJSON(w, http.StatusBadRequest, errBadRequest)
		return
	}

	res, pair := h.AuthService.Login(r.Context(), req, h.Now())
	if !res.OK() {
		httpx.WriteJSON(w, http.StatusUnauthorized, res)
		return
	}

	http.SetCookie(w, httpx.TokenCookie(pair.Access, h.SecureCookies))
	http.SetCookie(w, httpx.TokenCookie(pair.Refresh, h.SecureCookies))
	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleRegister serves POST /api/auth/register.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !decodeCredentials(w, r, &req.Username, &req.Password) {
		httpx.WriteJSON(w, http.StatusBadRequest, errBadRequest)
		return
	}

	res := h.UserService.Register(r.Context(), req, h.Now())
	if !res.OK() {
		httpx.WriteJSON(w, http.StatusBadRequest, res)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleRefresh serves POST /api/auth/refresh. The refresh token comes from
// its cookie; on success only the access cookie is replaced.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var raw string
	if c, err := r.Cookie(jwtx.RefreshCookieName); err == nil {
		raw = c.Value
	}

	res, access := h.AuthService.Refresh(r.Context(), raw, h.Now())
	if !res.OK() {
		httpx.WriteJSON(w, http.StatusUnauthorized, res)
		return
	}

	http.SetCookie(w, httpx.TokenCookie(*access, h.SecureCookies))
	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleLogout serves POST /api/auth/logout by expiring both cookies.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, httpx.ClearCookie(jwtx.AccessCookieName, h.SecureCookies))
	http.SetCookie(w, httpx.ClearCookie(jwtx.RefreshCookieName, h.SecureCookies))
	httpx.WriteJSON(w, http.StatusOK, h.AuthService.Logout())
}

// decodeCredentials reads {username, password} from a JSON body, or from a
// form body when the content type says so.
func decodeCredentials(w http.ResponseWriter, r *http.Request, username, password *string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return false
		}
		*username = r.PostForm.Get("username")
		*password = r.PostForm.Get("password")
		return true
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return false
	}
	*username, *password = body.Username, body.Password
	return true
}
