package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/gallery/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

//go:generate go run go.uber.org/mock/mockgen -destination=mockstore/credentials.go -package=mockstore . Credentials

// Credentials is the lookup the authentication gateway performs on every
// login. It returns ErrNotFound for unknown usernames.
type Credentials interface {
	FindByIdentity(ctx context.Context, username string) (domain.Credential, error)
}

// Store is the root data access interface implemented by drivers. It exposes
// sub-repositories so multi-step writes go through WithTx rather than nesting
// transactions.
type Store interface {
	Credentials

	Users() Users
	Roles() Roles

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is the repository set scoped to one transaction.
type Tx interface {
	Users() Users
	Roles() Roles
}

type Users interface {
	// GetUserByUsername returns a user by its unique username.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user. It returns ErrAlreadyExists when the
	// username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	// AddUserRole grants role to the user. Granting a held role is a no-op.
	AddUserRole(ctx context.Context, userID, role string) error

	// ListUserRoles returns the user's roles sorted by name.
	ListUserRoles(ctx context.Context, userID string) ([]string, error)
}
