package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/gallery/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newCodec(t *testing.T, alg string) *jwtx.Codec {
	t.Helper()
	km, err := jwtx.NewEphemeralKeyManager(alg)
	require.NoError(t, err)
	require.True(t, km.IsReady())
	return jwtx.NewCodec(km, "")
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	for _, alg := range []string{jwtx.AlgorithmEdDSA, jwtx.AlgorithmES256} {
		t.Run(alg, func(t *testing.T) {
			codec := newCodec(t, alg)

			tok, err := codec.Issue(jwtx.KindAccess, "alice", []string{"USER", "ADMIN"}, t0)
			require.NoError(t, err)
			require.Equal(t, t0.Add(5*time.Minute), tok.ExpiresAt)
			require.Equal(t, t0, tok.IssuedAt)

			claims, err := codec.Verify(tok.Raw, jwtx.KindAccess, t0.Add(4*time.Minute))
			require.NoError(t, err)
			require.Equal(t, "alice", claims.Subject)
			require.Equal(t, []string{"USER", "ADMIN"}, claims.Roles)
			require.Equal(t, jwtx.KindAccess, claims.Kind)
			require.WithinDuration(t, tok.ExpiresAt, claims.ExpiresAt.Time, 0)
			require.Equal(t, jwtx.Issuer, claims.Issuer)
			require.NotEmpty(t, claims.ID)
		})
	}
}

func TestVerifyExpiry(t *testing.T) {
	codec := newCodec(t, "")

	access, err := codec.Issue(jwtx.KindAccess, "alice", []string{"USER"}, t0)
	require.NoError(t, err)

	_, err = codec.Verify(access.Raw, jwtx.KindAccess, t0.Add(6*time.Minute))
	require.ErrorIs(t, err, jwtx.ErrExpired)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)

	// exp itself is already outside the window.
	_, err = codec.Verify(access.Raw, jwtx.KindAccess, access.ExpiresAt)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	refresh, err := codec.Issue(jwtx.KindRefresh, "alice", []string{"USER"}, t0)
	require.NoError(t, err)
	require.Equal(t, t0.Add(7*24*time.Hour), refresh.ExpiresAt)

	_, err = codec.Verify(refresh.Raw, jwtx.KindRefresh, t0.Add(7*24*time.Hour-time.Second))
	require.NoError(t, err)
	_, err = codec.Verify(refresh.Raw, jwtx.KindRefresh, t0.Add(7*24*time.Hour+time.Second))
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	codec := newCodec(t, "")

	refresh, err := codec.Issue(jwtx.KindRefresh, "alice", []string{"USER"}, t0)
	require.NoError(t, err)
	_, err = codec.Verify(refresh.Raw, jwtx.KindAccess, t0.Add(time.Minute))
	require.ErrorIs(t, err, jwtx.ErrWrongKind)

	access, err := codec.Issue(jwtx.KindAccess, "alice", []string{"USER"}, t0)
	require.NoError(t, err)
	_, err = codec.Verify(access.Raw, jwtx.KindRefresh, t0.Add(time.Minute))
	require.ErrorIs(t, err, jwtx.ErrWrongKind)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	issuer := newCodec(t, "")
	other := newCodec(t, "")

	tok, err := issuer.Issue(jwtx.KindAccess, "alice", nil, t0)
	require.NoError(t, err)

	_, err = other.Verify(tok.Raw, jwtx.KindAccess, t0)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	codec := newCodec(t, "")

	tok, err := codec.Issue(jwtx.KindAccess, "alice", []string{"USER"}, t0)
	require.NoError(t, err)

	parts := strings.Split(tok.Raw, ".")
	require.Len(t, parts, 3)

	forged := jwtx.NewClaims(jwtx.KindAccess, jwtx.Issuer, "alice", []string{"ADMIN"}, t0)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, forged).SigningString()
	require.NoError(t, err)
	payload := strings.Split(unsigned, ".")[1]

	_, err = codec.Verify(parts[0]+"."+payload+"."+parts[2], jwtx.KindAccess, t0)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)

	// alg=none must never be accepted.
	_, err = codec.Verify(unsigned+".", jwtx.KindAccess, t0)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	codec := newCodec(t, "")

	for _, raw := range []string{"", "   ", "abc", "a.b.c", "eyJhbGciOiJFZERTQSJ9.e30"} {
		_, err := codec.Verify(raw, jwtx.KindAccess, t0)
		require.ErrorIs(t, err, jwtx.ErrInvalidToken, raw)
	}
}

func TestIssueRejectsBadInput(t *testing.T) {
	codec := newCodec(t, "")

	_, err := codec.Issue(jwtx.Kind("session"), "alice", nil, t0)
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)

	_, err = codec.Issue(jwtx.KindAccess, "  ", nil, t0)
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
}

func TestIssuedRolesAreCopied(t *testing.T) {
	codec := newCodec(t, "")

	roles := []string{"USER"}
	tok, err := codec.Issue(jwtx.KindAccess, "alice", roles, t0)
	require.NoError(t, err)

	roles[0] = "ADMIN"
	claims, err := codec.Verify(tok.Raw, jwtx.KindAccess, t0)
	require.NoError(t, err)
	require.Equal(t, []string{"USER"}, claims.Roles)
	require.Equal(t, []string{"USER"}, tok.Roles)
}

func TestTokenIsCookieSafe(t *testing.T) {
	codec := newCodec(t, "")

	tok, err := codec.Issue(jwtx.KindRefresh, "alice", []string{"USER"}, t0)
	require.NoError(t, err)
	require.NotContainsf(t, tok.Raw, "=", "padding")
	require.NotContains(t, tok.Raw, "+")
	require.NotContains(t, tok.Raw, "/")
	require.NotContains(t, tok.Raw, ";")
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := jwtx.NewEphemeralKeyManager("RS256")
	require.Error(t, err)
}
