package cryptox_test

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"testing"

	"github.com/aussiebroadwan/gallery/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateSigningKey(t *testing.T) {
	t.Run("EdDSA", func(t *testing.T) {
		key, err := cryptox.GenerateSigningKey(cryptox.KeyEdDSA)
		require.NoError(t, err)

		priv, ok := key.(ed25519.PrivateKey)
		require.True(t, ok)
		require.Len(t, priv, ed25519.PrivateKeySize)
	})

	t.Run("ES256", func(t *testing.T) {
		key, err := cryptox.GenerateSigningKey(cryptox.KeyES256)
		require.NoError(t, err)

		priv, ok := key.(*ecdsa.PrivateKey)
		require.True(t, ok)
		require.Equal(t, elliptic.P256(), priv.Curve)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := cryptox.GenerateSigningKey("RS256")
		require.Error(t, err)
	})

	t.Run("keys are unique", func(t *testing.T) {
		a, err := cryptox.GenerateSigningKey(cryptox.KeyEdDSA)
		require.NoError(t, err)
		b, err := cryptox.GenerateSigningKey(cryptox.KeyEdDSA)
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})
}
