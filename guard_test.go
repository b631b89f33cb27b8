package blog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	blog "github.com/caderno/blog"
)

func claimsWithRoles(id string, roles ...string) blog.AuthClaims {
	return &blog.JWTClaims{
		UID:       id,
		UserRoles: roles,
	}
}

func TestAuthorize(t *testing.T) {
	t.Run("no rules always passes", func(t *testing.T) {
		assert.NoError(t, blog.Authorize(nil))
		assert.NoError(t, blog.Authorize(blog.AnonymousClaims()))
	})

	t.Run("evaluates rules in order and stops at the first failure", func(t *testing.T) {
		var evaluated []string
		track := func(name string, err error) blog.Rule {
			return func(blog.AuthClaims) error {
				evaluated = append(evaluated, name)
				return err
			}
		}

		err := blog.Authorize(blog.AnonymousClaims(),
			track("first", nil),
			track("second", blog.ErrAccessDenied),
			track("third", nil),
		)

		assert.ErrorIs(t, err, blog.ErrAccessDenied)
		assert.Equal(t, []string{"first", "second"}, evaluated)
	})

	t.Run("skips nil rules", func(t *testing.T) {
		err := blog.Authorize(blog.AnonymousClaims(), nil, nil)
		assert.NoError(t, err)
	})
}

func TestRequireAuthenticated(t *testing.T) {
	rule := blog.RequireAuthenticated()

	assert.ErrorIs(t, rule(blog.AnonymousClaims()), blog.ErrNotAuthenticated)
	assert.ErrorIs(t, rule(nil), blog.ErrNotAuthenticated)
	assert.NoError(t, rule(claimsWithRoles("user-1")))
}

func TestRequireRole(t *testing.T) {
	rule := blog.RequireRole(blog.RoleAdmin)

	t.Run("anonymous fails as unauthenticated", func(t *testing.T) {
		err := rule(blog.AnonymousClaims())
		assert.ErrorIs(t, err, blog.ErrNotAuthenticated)
		assert.True(t, blog.IsAuthError(err))
		assert.False(t, blog.IsForbiddenError(err))
	})

	t.Run("authenticated without role fails as forbidden", func(t *testing.T) {
		err := rule(claimsWithRoles("user-1", blog.RoleMember))
		assert.ErrorIs(t, err, blog.ErrAccessDenied)
		assert.True(t, blog.IsForbiddenError(err))
		assert.False(t, blog.IsAuthError(err))
	})

	t.Run("role holder passes", func(t *testing.T) {
		assert.NoError(t, rule(claimsWithRoles("user-1", blog.RoleAdmin)))
	})
}

func TestRequireOwnerOrRole(t *testing.T) {
	ownerID := "owner-1"
	rule := blog.RequireOwnerOrRole(ownerID, blog.RoleAdmin)

	t.Run("owner passes", func(t *testing.T) {
		assert.NoError(t, rule(claimsWithRoles(ownerID)))
	})

	t.Run("admin override passes", func(t *testing.T) {
		assert.NoError(t, rule(claimsWithRoles("someone-else", blog.RoleAdmin)))
	})

	t.Run("other member fails", func(t *testing.T) {
		err := rule(claimsWithRoles("someone-else", blog.RoleMember))
		assert.ErrorIs(t, err, blog.ErrAccessDenied)
	})

	t.Run("anonymous fails as unauthenticated", func(t *testing.T) {
		err := rule(blog.AnonymousClaims())
		assert.ErrorIs(t, err, blog.ErrNotAuthenticated)
	})

	t.Run("empty owner id never matches", func(t *testing.T) {
		open := blog.RequireOwnerOrRole("", blog.RoleAdmin)
		err := open(claimsWithRoles("", blog.RoleMember))
		assert.ErrorIs(t, err, blog.ErrNotAuthenticated)
	})
}

func TestRequireAtLeast(t *testing.T) {
	rule := blog.RequireAtLeast(blog.RoleMember)

	assert.ErrorIs(t, rule(blog.AnonymousClaims()), blog.ErrNotAuthenticated)
	assert.ErrorIs(t, rule(claimsWithRoles("user-1")), blog.ErrAccessDenied)
	assert.NoError(t, rule(claimsWithRoles("user-1", blog.RoleMember)))
	assert.NoError(t, rule(claimsWithRoles("user-1", blog.RoleAdmin)))
}
