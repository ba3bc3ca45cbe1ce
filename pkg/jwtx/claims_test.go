package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/gallery/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestKindProperties(t *testing.T) {
	require.Equal(t, 5*time.Minute, jwtx.KindAccess.Lifetime())
	require.Equal(t, 7*24*time.Hour, jwtx.KindRefresh.Lifetime())
	require.Equal(t, "AuthToken", jwtx.KindAccess.CookieName())
	require.Equal(t, "RefreshToken", jwtx.KindRefresh.CookieName())
	require.False(t, jwtx.Kind("other").Valid())
	require.Zero(t, jwtx.Kind("other").Lifetime())
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "gallery-auth"}}

	require.NoError(t, c.ValidateIssuer("gallery-auth"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("someone-else"), jwtx.ErrIssuer)
}

func TestValidateAt(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}
		require.NoError(t, c.ValidateAt(now))
	})

	t.Run("expired", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}}
		require.ErrorIs(t, c.ValidateAt(now), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		require.ErrorIs(t, c.ValidateAt(now), jwtx.ErrNotYetValid)
	})

	t.Run("missing exp", func(t *testing.T) {
		c := &jwtx.Claims{}
		require.ErrorIs(t, c.ValidateAt(now), jwtx.ErrMalformed)
	})
}

func TestValidateKind(t *testing.T) {
	c := &jwtx.Claims{Kind: jwtx.KindRefresh}
	require.NoError(t, c.ValidateKind(jwtx.KindRefresh))
	require.ErrorIs(t, c.ValidateKind(jwtx.KindAccess), jwtx.ErrWrongKind)

	empty := &jwtx.Claims{}
	require.ErrorIs(t, empty.ValidateKind(jwtx.KindAccess), jwtx.ErrMalformed)
}

func TestHasRole(t *testing.T) {
	c := &jwtx.Claims{Roles: []string{"USER"}}
	require.True(t, c.HasRole("USER"))
	require.False(t, c.HasRole("ADMIN"))
}
