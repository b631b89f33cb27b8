package blog_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	blog "github.com/caderno/blog"
)

func TestJWTClaims(t *testing.T) {
	now := time.Now()
	claims := &blog.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UID:       "user-1",
		Name:      "alice",
		UserEmail: "alice@example.com",
		UserRoles: []string{"member"},
	}

	assert.Equal(t, "subject-1", claims.Subject())
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, "alice@example.com", claims.Email())
	assert.True(t, claims.HasRole("member"))
	assert.False(t, claims.HasRole("admin"))
	assert.True(t, claims.IsAuthenticated())
	assert.WithinDuration(t, now, claims.IssuedAt(), time.Second)
	assert.WithinDuration(t, now.Add(time.Hour), claims.Expires(), time.Second)
}

func TestJWTClaims_UserIDFallsBackToSubject(t *testing.T) {
	claims := &blog.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-1"},
	}
	assert.Equal(t, "subject-1", claims.UserID())
}

func TestAnonymousClaims(t *testing.T) {
	claims := blog.AnonymousClaims()

	assert.False(t, claims.IsAuthenticated())
	assert.Empty(t, claims.UserID())
	assert.Empty(t, claims.Roles())
	assert.False(t, claims.HasRole(blog.RoleAdmin))
	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}

func TestClaimsContext(t *testing.T) {
	t.Run("round trips claims", func(t *testing.T) {
		claims := claimsWithRoles("user-1", blog.RoleMember)
		ctx := blog.WithClaimsContext(context.Background(), claims)

		got, ok := blog.GetClaims(ctx)
		assert.True(t, ok)
		assert.Equal(t, "user-1", got.UserID())
	})

	t.Run("missing claims read as anonymous", func(t *testing.T) {
		_, ok := blog.GetClaims(context.Background())
		assert.False(t, ok)

		claims := blog.ClaimsOrAnonymous(context.Background())
		assert.False(t, claims.IsAuthenticated())
	})

	t.Run("round trips user", func(t *testing.T) {
		user := &blog.User{Username: "alice"}
		ctx := blog.WithContext(context.Background(), user)

		got, ok := blog.FromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "alice", got.Username)
	})
}
