package jwtx

import (
	"crypto"
	"fmt"

	"github.com/aussiebroadwan/gallery/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Supported JWT signing algorithms
const (
	AlgorithmEdDSA = "EdDSA"
	AlgorithmES256 = "ES256"
)

// KeyManager owns the process signing key. The key is generated when the
// manager is created and lives only in memory: restarting the process
// invalidates every outstanding token. After construction the manager is
// read-only, so concurrent readers need no locking.
type KeyManager struct {
	algorithm string
	kid       string
	method    jwt.SigningMethod
	private   crypto.Signer
	public    crypto.PublicKey
}

// NewEphemeralKeyManager generates a fresh signing key for algorithm. An
// empty algorithm selects EdDSA.
func NewEphemeralKeyManager(algorithm string) (*KeyManager, error) {
	if algorithm == "" {
		algorithm = AlgorithmEdDSA
	}

	var method jwt.SigningMethod
	switch algorithm {
	case AlgorithmEdDSA:
		method = jwt.SigningMethodEdDSA
	case AlgorithmES256:
		method = jwt.SigningMethodES256
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: EdDSA, ES256)", algorithm)
	}

	key, err := cryptox.GenerateSigningKey(algorithm)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate signing key: %w", err)
	}

	kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate key id: %w", err)
	}

	return &KeyManager{
		algorithm: algorithm,
		kid:       "gallery-" + kid,
		method:    method,
		private:   key,
		public:    key.Public(),
	}, nil
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string { return km.algorithm }

// KID returns the key id stamped into the "kid" header.
func (km *KeyManager) KID() string { return km.kid }

// IsReady returns true if the KeyManager has a usable key.
func (km *KeyManager) IsReady() bool {
	return km != nil && km.private != nil && km.public != nil
}

func (km *KeyManager) sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(km.method, claims)
	t.Header["kid"] = km.kid
	return t.SignedString(km.private)
}

func (km *KeyManager) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid != km.kid {
		return nil, fmt.Errorf("jwtx: unknown kid %q", kid)
	}
	return km.public, nil
}
