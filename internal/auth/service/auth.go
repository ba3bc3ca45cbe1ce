package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aussiebroadwan/gallery/internal/auth/domain"
	"github.com/aussiebroadwan/gallery/internal/auth/guard"
	"github.com/aussiebroadwan/gallery/internal/auth/metrics"
	"github.com/aussiebroadwan/gallery/internal/auth/store"
	"github.com/aussiebroadwan/gallery/pkg/cryptox"
	"github.com/aussiebroadwan/gallery/pkg/jwtx"
	"github.com/aussiebroadwan/gallery/pkg/slogx"
)

// DefaultLookupTimeout bounds a single credential store lookup.
const DefaultLookupTimeout = 5 * time.Second

// Codec is the part of jwtx.Codec the gateway uses.
type Codec interface {
	jwtx.TokenIssuer
	jwtx.Verifier
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Principal is an authenticated user.
type Principal struct {
	Subject string
	Roles   []string
}

// TokenPair is issued on a successful login.
type TokenPair struct {
	Access  jwtx.Token
	Refresh jwtx.Token
}

// AuthService is the authentication gateway shared by both surfaces. It
// checks the lockout before touching the credential store, verifies the
// password, and mints tokens.
type AuthService struct {
	Credentials   store.Credentials
	Codec         Codec
	Limiter       guard.Limiter
	LookupTimeout time.Duration
}

// Authenticate checks username and password at now. It fails with ErrLocked
// while the lockout is engaged (without consulting the store),
// ErrInvalidCredentials on an unknown user or wrong password, and
// ErrStoreUnavailable when the lookup itself fails.
func (s *AuthService) Authenticate(ctx context.Context, username, password string, now time.Time) (Principal, error) {
	l := slogx.FromContext(ctx)

	if s.Limiter.IsBlocked(username, now) {
		l.Warn("login refused while locked", slog.String("username", username))
		return Principal{}, ErrLocked
	}

	if username == "" || password == "" {
		s.registerFailure(ctx, username, now)
		return Principal{}, ErrInvalidCredentials
	}

	cred, err := s.lookup(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.registerFailure(ctx, username, now)
		return Principal{}, ErrInvalidCredentials
	case err != nil:
		l.Error("credential lookup failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
		return Principal{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if err := cryptox.VerifyPassword(password, cred.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			l.Error("stored password hash unusable",
				slog.String("username", username),
				slog.Any("error", err),
			)
		}
		s.registerFailure(ctx, username, now)
		return Principal{}, ErrInvalidCredentials
	}

	s.Limiter.Reset(username)
	return Principal{Subject: cred.Username, Roles: slices.Clone(cred.Roles)}, nil
}

// lookup queries the store under LookupTimeout. No lock is held across it.
func (s *AuthService) lookup(ctx context.Context, username string) (domain.Credential, error) {
	timeout := s.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return s.Credentials.FindByIdentity(ctx, username)
}

func (s *AuthService) registerFailure(ctx context.Context, username string, now time.Time) {
	if s.Limiter.RegisterFailure(username, now) {
		metrics.LockoutsTotal.Inc()
		slogx.FromContext(ctx).Warn("login lockout engaged", slog.String("username", username))
	}
}

// Login authenticates req and, on success, issues an access and a refresh
// token. Every failure is reported as a FAILURE result with a generic
// message and no tokens.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, now time.Time) (domain.Result, *TokenPair) {
	l := slogx.FromContext(ctx)

	p, err := s.Authenticate(ctx, req.Username, req.Password, now)
	metrics.LoginsTotal.WithLabelValues("api", LoginOutcome(err)).Inc()
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return domain.Failure(MsgLoginFailed, "unavailable"), nil
		}
		return domain.Failure(MsgLoginFailed, "invalid_credentials"), nil
	}

	access, err := s.Codec.Issue(jwtx.KindAccess, p.Subject, p.Roles, now)
	if err != nil {
		l.Error("failed to issue access token", slog.Any("error", err))
		return domain.Failure(MsgInternal, "server_error"), nil
	}
	refresh, err := s.Codec.Issue(jwtx.KindRefresh, p.Subject, p.Roles, now)
	if err != nil {
		l.Error("failed to issue refresh token", slog.Any("error", err))
		return domain.Failure(MsgInternal, "server_error"), nil
	}

	l.Info("login succeeded", slog.String("username", p.Subject))
	return domain.Success(MsgLoginSuccess), &TokenPair{Access: access, Refresh: refresh}
}

// Refresh exchanges a refresh token for a new access token carrying the
// same subject and roles. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshRaw string, now time.Time) (domain.Result, *jwtx.Token) {
	l := slogx.FromContext(ctx)

	if refreshRaw == "" {
		metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return domain.Failure(MsgRefreshFailed, ErrInvalidRefresh.Error()), nil
	}

	claims, err := s.Codec.Verify(refreshRaw, jwtx.KindRefresh, now)
	if err != nil {
		l.Debug("refresh token rejected", slog.Any("error", err))
		metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return domain.Failure(MsgRefreshFailed, ErrInvalidRefresh.Error()), nil
	}

	access, err := s.Codec.Issue(jwtx.KindAccess, claims.Subject, claims.Roles, now)
	if err != nil {
		l.Error("failed to issue access token", slog.Any("error", err))
		metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return domain.Failure(MsgInternal, "server_error"), nil
	}

	metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return domain.Success(MsgRefreshSuccess), &access
}

// Logout always succeeds. Tokens are not revoked server-side; the caller is
// expected to clear the token cookies, and a captured token stays valid until
// it expires.
func (s *AuthService) Logout() domain.Result {
	return domain.Success(MsgLogoutSuccess)
}

// LoginOutcome maps an Authenticate error to a metrics label.
func LoginOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrLocked):
		return metrics.OutcomeLocked
	case errors.Is(err, ErrInvalidCredentials):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
