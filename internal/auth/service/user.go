package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/gallery/internal/auth/domain"
	"github.com/aussiebroadwan/gallery/internal/auth/store"
	"github.com/aussiebroadwan/gallery/pkg/cryptox"
	"github.com/aussiebroadwan/gallery/pkg/idx"
	"github.com/aussiebroadwan/gallery/pkg/slogx"
)

// Base and elevated roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{2,31}$`)

// RegisterRequest is the body of a register call.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r RegisterRequest) validate() error {
	if !usernamePattern.MatchString(r.Username) {
		return ErrInvalidUsername
	}
	n := utf8.RuneCountInString(r.Password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// UserService creates accounts in the credential store.
type UserService struct {
	Store store.Store
}

// Register creates a user holding the base role. The result message never
// reveals whether the username was already taken.
func (s *UserService) Register(ctx context.Context, req RegisterRequest, now time.Time) domain.Result {
	l := slogx.FromContext(ctx)

	if err := req.validate(); err != nil {
		return domain.Failure(MsgRegisterFailed, err.Error())
	}

	_, err := s.CreateUser(ctx, req.Username, req.Password, now, RoleUser)
	switch {
	case errors.Is(err, ErrUsernameTaken):
		l.Info("registration for existing username", slog.String("username", req.Username))
		return domain.Failure(MsgRegisterFailed, "")
	case err != nil:
		l.Error("registration failed", slog.String("username", req.Username), slog.Any("error", err))
		return domain.Failure(MsgRegisterFailed, "")
	}

	l.Info("user registered", slog.String("username", req.Username))
	return domain.Success(MsgRegisterSuccess)
}

// CreateUser hashes password and stores the user with roles in one
// transaction. It returns the new user id.
func (s *UserService) CreateUser(ctx context.Context, username, password string, now time.Time, roles ...string) (string, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", err
	}

	id := idx.NewAt(now).String()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, domain.User{
			ID:           id,
			Username:     username,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}
		for _, role := range roles {
			if err := tx.Roles().AddUserRole(ctx, id, role); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return "", ErrUsernameTaken
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// BootstrapAdmin creates an administrator when the store has no users yet.
// It reports whether a user was created.
func (s *UserService) BootstrapAdmin(ctx context.Context, username, password string, now time.Time) (bool, error) {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		l.Debug("bootstrap skipped, users already exist")
		return false, nil
	}

	req := RegisterRequest{Username: username, Password: password}
	if err := req.validate(); err != nil {
		return false, err
	}

	id, err := s.CreateUser(ctx, username, password, now, RoleUser, RoleAdmin)
	if err != nil {
		return false, err
	}

	l.Info("bootstrapped admin user", slog.String("user_id", id), slog.String("username", username))
	return true, nil
}
