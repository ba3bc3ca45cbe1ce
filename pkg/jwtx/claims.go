package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes the two token flavours we mint. It is embedded in every
// token as the "kind" claim so a refresh token can never stand in for an
// access token (or the other way round).
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Token lifetimes. These are fixed per kind and not configurable.
const (
	AccessTokenTTL  = 5 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Cookie names used to carry each kind of token.
const (
	AccessCookieName  = "AuthToken"
	RefreshCookieName = "RefreshToken"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindAccess || k == KindRefresh
}

// Lifetime returns how long a token of this kind stays valid after issue.
func (k Kind) Lifetime() time.Duration {
	switch k {
	case KindAccess:
		return AccessTokenTTL
	case KindRefresh:
		return RefreshTokenTTL
	default:
		return 0
	}
}

// CookieName returns the transport name of this kind.
func (k Kind) CookieName() string {
	switch k {
	case KindAccess:
		return AccessCookieName
	case KindRefresh:
		return RefreshCookieName
	default:
		return ""
	}
}

func (k Kind) String() string { return string(k) }

// Claims are the claims carried by every gallery token. Roles are captured at
// issue time and never re-resolved on verification.
type Claims struct {
	jwt.RegisteredClaims

	Kind  Kind     `json:"kind"`
	Roles []string `json:"roles,omitempty"`
}

// NewClaims builds the claims for a token of the given kind issued at now.
func NewClaims(kind Kind, issuer, subject string, roles []string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(kind.Lifetime())),
			ID:        NewJTI(now),
		},
		Kind:  kind,
		Roles: slices.Clone(roles),
	}
}

// HasRole reports whether role was granted when the token was issued.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateKind makes sure the token is of the kind the caller asked for.
func (c *Claims) ValidateKind(want Kind) error {
	if !c.Kind.Valid() {
		return ErrMalformed
	}
	if c.Kind != want {
		return ErrWrongKind
	}
	return nil
}

// ValidateAt checks exp and nbf against now. A token is only valid while
// now is strictly before exp; there is no leeway.
func (c *Claims) ValidateAt(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrMalformed
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
