package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/gallery/internal/auth/domain"
)

// FindByIdentity resolves username to its password hash and roles.
func (s *Store) FindByIdentity(ctx context.Context, username string) (domain.Credential, error) {
	u, err := s.Users().GetUserByUsername(ctx, username)
	if err != nil {
		return domain.Credential{}, err
	}

	roles, err := s.Roles().ListUserRoles(ctx, u.ID)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("list roles for %s: %w", username, err)
	}

	return domain.Credential{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Roles:        roles,
	}, nil
}
