package blog_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	blog "github.com/caderno/blog"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory database with the schema applied. The
// DSN carries a sequence number so tests that open several databases get
// isolated stores even within one subtest.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, testDBSeq.Add(1))

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	_, err = db.NewCreateTable().Model((*blog.User)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewCreateTable().Model((*blog.Post)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)

	return db
}

// testStack wires the full dispatch stack over a test database.
type testStack struct {
	db       *bun.DB
	repo     blog.RepositoryManager
	identity blog.IdentityManager
	provider blog.IdentityProvider
	tokens   blog.TokenService
	pipeline *blog.Pipeline
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := newTestDB(t)
	repo := blog.NewRepositoryManager(db)

	return &testStack{
		db:       db,
		repo:     repo,
		identity: blog.NewIdentityManager(repo),
		provider: blog.NewUserProvider(repo.Users()),
		tokens: blog.NewTokenService(
			[]byte("test-signing-key"),
			60,
			"test-issuer",
			jwt.ClaimStrings{"test-audience"},
			nil,
		),
		pipeline: blog.NewPipeline(repo),
	}
}

// register runs the registration flow and fails the test on error.
func (s *testStack) register(t *testing.T, username, email, password string) *blog.UserResponse {
	t.Helper()

	handler := blog.NewRegisterUserHandler(s.pipeline, s.identity)
	res, err := handler.Execute(context.Background(), blog.RegisterUserMessage{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	return res
}

// ctxFor builds a request context carrying the claims of a known account.
func ctxFor(user *blog.UserResponse) context.Context {
	claims := &blog.JWTClaims{
		UID:       user.ID.String(),
		Name:      user.Username,
		UserEmail: user.Email,
		UserRoles: user.Roles,
	}
	return blog.WithClaimsContext(context.Background(), claims)
}

// seedAdmin bootstraps the administrator account and returns its response
// shape for context building.
func (s *testStack) seedAdmin(t *testing.T) *blog.UserResponse {
	t.Helper()

	admin, err := blog.SeedAdminUser(context.Background(), s.identity, blog.DefaultAdminSeed())
	require.NoError(t, err)

	return blog.NewUserResponse(admin)
}
