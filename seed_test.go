package blog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blog "github.com/caderno/blog"
)

func TestSeedAdminUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the administrator on an empty store", func(t *testing.T) {
		stack := newTestStack(t)

		admin, err := blog.SeedAdminUser(ctx, stack.identity, blog.DefaultAdminSeed())
		require.NoError(t, err)
		assert.Equal(t, "admin", admin.Username)
		assert.True(t, admin.HasRole(blog.RoleAdmin))

		stored, err := stack.identity.FindByEmail(ctx, "admin@localhost")
		require.NoError(t, err)
		assert.True(t, stack.identity.VerifyPassword(ctx, stored, "changeme-admin"))
	})

	t.Run("is idempotent", func(t *testing.T) {
		stack := newTestStack(t)

		first, err := blog.SeedAdminUser(ctx, stack.identity, blog.DefaultAdminSeed())
		require.NoError(t, err)

		second, err := blog.SeedAdminUser(ctx, stack.identity, blog.DefaultAdminSeed())
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		users, err := stack.identity.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("restores a stripped admin role", func(t *testing.T) {
		stack := newTestStack(t)
		seed := blog.DefaultAdminSeed()

		demoted := &blog.User{
			Username: seed.Username,
			Email:    seed.Email,
			Roles:    []string{},
		}
		_, err := stack.identity.CreateUser(ctx, demoted, seed.Password)
		require.NoError(t, err)

		admin, err := blog.SeedAdminUser(ctx, stack.identity, seed)
		require.NoError(t, err)
		assert.True(t, admin.HasRole(blog.RoleAdmin))

		stored, err := stack.identity.FindByEmail(ctx, seed.Email)
		require.NoError(t, err)
		assert.True(t, stored.HasRole(blog.RoleAdmin))
	})
}
