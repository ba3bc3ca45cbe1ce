package jwtx

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the default "iss" claim stamped into gallery tokens.
const Issuer = "gallery-auth"

// Token is an issued, signed token together with the facts that went into it.
type Token struct {
	Raw       string
	Kind      Kind
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Verifier validates a token string and gives you back the claims if it's legit.
type Verifier interface {
	Verify(raw string, want Kind, now time.Time) (Claims, error)
}

// TokenIssuer mints tokens.
type TokenIssuer interface {
	Issue(kind Kind, subject string, roles []string, now time.Time) (Token, error)
}

// Codec signs and verifies compact JWS tokens with the process key.
type Codec struct {
	keys   *KeyManager
	issuer string
	parser *jwt.Parser
}

// NewCodec returns a Codec backed by keys. An empty issuer falls back to Issuer.
func NewCodec(keys *KeyManager, issuer string) *Codec {
	if issuer == "" {
		issuer = Issuer
	}

	return &Codec{
		keys:   keys,
		issuer: issuer,
		// Time based checks are done by Claims.ValidateAt against the caller's
		// clock, not the library's.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{keys.method.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Issue signs a new token of kind for subject. expiresAt is always
// issuedAt + kind.Lifetime().
func (c *Codec) Issue(kind Kind, subject string, roles []string, now time.Time) (Token, error) {
	if !kind.Valid() {
		return Token{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidClaim, kind)
	}
	if strings.TrimSpace(subject) == "" {
		return Token{}, fmt.Errorf("%w: empty subject", ErrInvalidClaim)
	}

	claims := NewClaims(kind, c.issuer, subject, roles, now)

	raw, err := c.keys.sign(claims)
	if err != nil {
		return Token{}, fmt.Errorf("jwtx: sign: %w", err)
	}

	// Report the times exactly as encoded so a decode gives the same values.
	return Token{
		Raw:       raw,
		Kind:      kind,
		Subject:   subject,
		Roles:     slices.Clone(claims.Roles),
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks signature, issuer, expiry and kind of raw. Every failure
// wraps ErrInvalidToken.
func (c *Codec) Verify(raw string, want Kind, now time.Time) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrMalformed
	}

	var claims Claims
	if _, err := c.parser.ParseWithClaims(raw, &claims, c.keys.keyFunc); err != nil {
		return Claims{}, classify(err)
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateKind(want); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAt(now); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, ErrMalformed
	}

	return claims, nil
}

// classify maps golang-jwt errors onto our own taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w (%v)", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w (%v)", ErrMalformed, err)
	}
}
