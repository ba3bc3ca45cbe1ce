package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-pepper")
	if err != nil {
		panic(err)
	}
	if err := LoadPepper(filepath.Join(dir, "pepper")); err != nil {
		panic(err)
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestLoadPepper_PersistsAcrossLoads(t *testing.T) {
	saved := getPepper()
	t.Cleanup(func() { setPepper(saved) })

	path := filepath.Join(t.TempDir(), "nested", "pepper")
	require.NoError(t, LoadPepper(path))
	first := getPepper()
	require.NotEmpty(t, first)

	require.NoError(t, LoadPepper(path))
	require.Equal(t, first, getPepper())
}

func TestHashPassword_PHCFormat(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	require.Equal(t, "argon2id", parts[1])
	require.Equal(t, "v=19", parts[2])
	require.Equal(t, "m=19456,t=2,p=1", parts[3])
}

func TestVerifyPassword_Argon2id(t *testing.T) {
	passwords := []string{"password123", "P@ssw0rd!#$%^&*()", strings.Repeat("a", 100), "", "   spaces   "}

	for _, pw := range passwords {
		hash, err := HashPassword(pw)
		require.NoError(t, err)
		require.NoError(t, VerifyPassword(pw, hash))
	}

	hash, err := HashPassword("correct-password")
	require.NoError(t, err)
	for _, wrong := range []string{"wrong", "Correct-Password", "correct-password ", ""} {
		require.ErrorIs(t, VerifyPassword(wrong, hash), ErrMismatch)
	}
}

func TestVerifyPassword_UniqueSalts(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, VerifyPassword("same", a))
	require.NoError(t, VerifyPassword("same", b))
}

func TestVerifyPassword_Bcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, VerifyPassword("s3cret", string(hash)))
	require.ErrorIs(t, VerifyPassword("nope", string(hash)), ErrMismatch)
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	invalid := []string{
		"",
		"plaintext",
		"$scrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456",
		"$argon2id$v=19$invalid$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$2b$10$short",
	}

	for _, h := range invalid {
		require.ErrorIs(t, VerifyPassword("pw", h), ErrHashFormat, h)
	}
}
