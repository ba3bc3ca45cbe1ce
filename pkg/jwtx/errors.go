package jwtx

import (
	"errors"
	"fmt"
)

// ErrInvalidToken is the umbrella error for every verification failure.
// Callers that only need to know "good or not" should match on it and never
// tell the client which check failed.
var ErrInvalidToken = errors.New("jwtx: invalid token")

var (
	ErrMalformed   = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrInvalidSig  = fmt.Errorf("%w: invalid signature", ErrInvalidToken)
	ErrExpired     = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrNotYetValid = fmt.Errorf("%w: not yet valid", ErrInvalidToken)
	ErrWrongKind   = fmt.Errorf("%w: wrong token kind", ErrInvalidToken)
	ErrIssuer      = fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
)

// ErrInvalidClaim is returned by Issue for inputs we refuse to sign.
var ErrInvalidClaim = errors.New("jwtx: invalid claims")
