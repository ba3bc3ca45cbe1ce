package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrLocked             = errors.New("locked")
	ErrStoreUnavailable   = errors.New("credential_store_unavailable")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrWeakPassword       = errors.New("weak_password")
	ErrUsernameTaken      = errors.New("username_taken")
)

// Messages returned to callers. Locked and bad-credential logins share one
// message so a caller cannot tell them apart.
const (
	MsgLoginSuccess    = "Login successful"
	MsgLoginFailed     = "Invalid username or password"
	MsgRefreshSuccess  = "Access token refreshed"
	MsgRefreshFailed   = "Invalid or expired refresh token"
	MsgLogoutSuccess   = "Logged out"
	MsgRegisterSuccess = "Registration successful"
	MsgRegisterFailed  = "Registration failed"
	MsgInternal        = "Authentication is temporarily unavailable"
)
