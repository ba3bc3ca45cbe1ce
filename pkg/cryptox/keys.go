package cryptox

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
)

// Key algorithms understood by GenerateSigningKey. The names match the JWS
// "alg" header values.
const (
	KeyEdDSA = "EdDSA"
	KeyES256 = "ES256"
)

// GenerateSigningKey creates a fresh private key for the given algorithm.
// Keys are only ever held in memory so no PEM encoding is done here.
func GenerateSigningKey(alg string) (crypto.Signer, error) {
	switch alg {
	case KeyEdDSA:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("cryptox: generate Ed25519 key: %w", err)
		}
		return priv, nil

	case KeyES256:
		priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("cryptox: generate P-256 key: %w", err)
		}
		return priv, nil

	default:
		return nil, fmt.Errorf("cryptox: unsupported key algorithm %q", alg)
	}
}
