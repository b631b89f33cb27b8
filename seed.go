package blog

import (
	"context"

	"github.com/goliatone/go-errors"
)

// AdminSeed describes the bootstrap administrator account created on an
// empty store.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// DefaultAdminSeed mirrors the account the service ships with; override the
// password before any non-local deployment.
func DefaultAdminSeed() AdminSeed {
	return AdminSeed{
		Username: "admin",
		Email:    "admin@localhost",
		Password: "changeme-admin",
	}
}

// SeedAdminUser ensures an administrator account exists. Safe to run on
// every startup: an existing account is left untouched except for a missing
// admin role, which is restored.
func SeedAdminUser(ctx context.Context, identity IdentityManager, seed AdminSeed) (*User, error) {
	existing, err := identity.FindByEmail(ctx, seed.Email)
	if err == nil {
		if !existing.HasRole(RoleAdmin) {
			if err := identity.AddToRole(ctx, existing, RoleAdmin); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := &User{
		ID:       deterministicUserID(seed.Email),
		Username: seed.Username,
		Email:    seed.Email,
		Roles:    []string{RoleAdmin},
	}

	created, err := identity.CreateUser(ctx, user, seed.Password)
	if err != nil {
		return nil, err
	}

	return created, nil
}
