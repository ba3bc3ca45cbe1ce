package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/gallery/internal/auth/guard"
	"github.com/aussiebroadwan/gallery/internal/auth/service"
	"github.com/aussiebroadwan/gallery/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/gallery/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestRegister_ThenLogin(t *testing.T) {
	db := newSQLite(t)
	ctx := context.Background()
	users := &service.UserService{Store: db}

	res := users.Register(ctx, service.RegisterRequest{Username: "carol", Password: "long enough"}, t0)
	require.True(t, res.OK(), res.Error)

	cred, err := db.FindByIdentity(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, []string{service.RoleUser}, cred.Roles)
	require.Contains(t, cred.PasswordHash, "$argon2id$")

	km, err := jwtx.NewEphemeralKeyManager("")
	require.NoError(t, err)
	auth := &service.AuthService{
		Credentials: db,
		Codec:       jwtx.NewCodec(km, jwtx.Issuer),
		Limiter:     guard.NewLimiter(guard.ScopeGlobal, guard.Config{}),
	}
	res, pair := auth.Login(ctx, service.LoginRequest{Username: "carol", Password: "long enough"}, t0)
	require.True(t, res.OK())
	require.Equal(t, []string{service.RoleUser}, pair.Access.Roles)
}

func TestRegister_Validation(t *testing.T) {
	users := &service.UserService{Store: newSQLite(t)}
	ctx := context.Background()

	for name, req := range map[string]service.RegisterRequest{
		"short username": {Username: "ab", Password: "long enough"},
		"bad characters": {Username: "al ice", Password: "long enough"},
		"short password": {Username: "alice", Password: "short"},
		"leading symbol": {Username: "-alice", Password: "long enough"},
		"empty password": {Username: "alice"},
	} {
		t.Run(name, func(t *testing.T) {
			res := users.Register(ctx, req, t0)
			require.False(t, res.OK())
			require.Equal(t, service.MsgRegisterFailed, res.Message)
		})
	}
}

func TestRegister_DuplicateIsGeneric(t *testing.T) {
	users := &service.UserService{Store: newSQLite(t)}
	ctx := context.Background()

	require.True(t, users.Register(ctx, service.RegisterRequest{Username: "dave", Password: "long enough"}, t0).OK())

	res := users.Register(ctx, service.RegisterRequest{Username: "dave", Password: "another one"}, t0)
	require.False(t, res.OK())
	require.Equal(t, service.MsgRegisterFailed, res.Message)
	require.Empty(t, res.Error)

	_, err := users.CreateUser(ctx, "dave", "whatever1", t0)
	require.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestBootstrapAdmin(t *testing.T) {
	db := newSQLite(t)
	users := &service.UserService{Store: db}
	ctx := context.Background()

	created, err := users.BootstrapAdmin(ctx, "root", "super secret", t0)
	require.NoError(t, err)
	require.True(t, created)

	cred, err := db.FindByIdentity(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, []string{service.RoleAdmin, service.RoleUser}, cred.Roles)

	created, err = users.BootstrapAdmin(ctx, "other", "super secret", t0)
	require.NoError(t, err)
	require.False(t, created)
}
