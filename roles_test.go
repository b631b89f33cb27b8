package blog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	blog "github.com/caderno/blog"
)

func TestRoleIsValid(t *testing.T) {
	assert.True(t, blog.RoleIsValid(blog.RoleGuest))
	assert.True(t, blog.RoleIsValid(blog.RoleMember))
	assert.True(t, blog.RoleIsValid(blog.RoleAdmin))
	assert.False(t, blog.RoleIsValid("owner"))
	assert.False(t, blog.RoleIsValid(""))
}

func TestRoleIsAtLeast(t *testing.T) {
	assert.True(t, blog.RoleIsAtLeast(blog.RoleAdmin, blog.RoleMember))
	assert.True(t, blog.RoleIsAtLeast(blog.RoleMember, blog.RoleMember))
	assert.False(t, blog.RoleIsAtLeast(blog.RoleGuest, blog.RoleMember))
	assert.False(t, blog.RoleIsAtLeast("unknown", blog.RoleGuest))
	assert.False(t, blog.RoleIsAtLeast(blog.RoleAdmin, "unknown"))
}

func TestParseRole(t *testing.T) {
	role, ok := blog.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, blog.RoleAdmin, role)

	_, ok = blog.ParseRole("superuser")
	assert.False(t, ok)
}

func TestHighestRole(t *testing.T) {
	assert.Equal(t, blog.RoleGuest, blog.HighestRole(nil))
	assert.Equal(t, blog.RoleMember, blog.HighestRole([]string{"member"}))
	assert.Equal(t, blog.RoleAdmin, blog.HighestRole([]string{"member", "admin"}))
	assert.Equal(t, blog.RoleGuest, blog.HighestRole([]string{"unknown"}))
}

func TestGetAllRoles(t *testing.T) {
	roles := blog.GetAllRoles()
	assert.Equal(t, []blog.UserRole{blog.RoleGuest, blog.RoleMember, blog.RoleAdmin}, roles)
}
