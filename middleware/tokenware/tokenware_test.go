package tokenware_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"

	"github.com/caderno/blog/middleware/tokenware"
)

type stubClaims struct {
	uid   string
	roles []string
}

func (s stubClaims) Subject() string  { return s.uid }
func (s stubClaims) UserID() string   { return s.uid }
func (s stubClaims) Username() string { return "alice" }
func (s stubClaims) Email() string    { return "alice@example.com" }
func (s stubClaims) Roles() []string  { return s.roles }

func (s stubClaims) HasRole(role string) bool {
	for _, r := range s.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (s stubClaims) IsAuthenticated() bool { return s.uid != "" }

// stubValidator records what the middleware hands it.
type stubValidator struct {
	claims tokenware.AuthClaims
	err    error
	calls  int
	seen   string
}

func (v *stubValidator) Validate(token string) (tokenware.AuthClaims, error) {
	v.calls++
	v.seen = token
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func passthrough(ctx router.Context) error {
	return ctx.Next()
}

func TestTokenware_HeaderExtraction(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{uid: "user-123"}}

	middleware := tokenware.New(tokenware.Config{
		Validator: validator,
		ErrorHandler: func(ctx router.Context, err error) error {
			return err
		},
	})
	handler := middleware(passthrough)

	// Valid bearer credential
	ctx := router.NewMockContext()
	ctx.HeadersM["Authorization"] = "Bearer token-abc"
	ctx.On("GetString", "Authorization", "").Return("Bearer token-abc")
	ctx.On("Locals", "user", mock.Anything).Return(nil)

	if err := handler(ctx); err != nil {
		t.Fatalf("unexpected error for valid token: %v", err)
	}
	if !ctx.NextCalled {
		t.Error("expected Next to be invoked on success")
	}
	if validator.seen != "token-abc" {
		t.Errorf("expected the scheme to be stripped, validator saw %q", validator.seen)
	}

	// Missing credential
	ctx = router.NewMockContext()
	ctx.On("GetString", "Authorization", "").Return("")

	err := handler(ctx)
	if !errors.Is(err, tokenware.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got: %v", err)
	}

	// Wrong scheme reads as missing
	ctx = router.NewMockContext()
	ctx.HeadersM["Authorization"] = "Basic dXNlcjpwYXNz"
	ctx.On("GetString", "Authorization", "").Return("Basic dXNlcjpwYXNz")

	err = handler(ctx)
	if !errors.Is(err, tokenware.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing for a non-bearer scheme, got: %v", err)
	}
}

func TestTokenware_OptionalRequests(t *testing.T) {
	t.Run("missing credential continues as anonymous", func(t *testing.T) {
		validator := &stubValidator{claims: stubClaims{uid: "user-123"}}

		middleware := tokenware.New(tokenware.Config{
			Validator: validator,
			Optional:  true,
		})
		handler := middleware(passthrough)

		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("")

		if err := handler(ctx); err != nil {
			t.Fatalf("expected anonymous continuation, got: %v", err)
		}
		if !ctx.NextCalled {
			t.Error("expected Next to be invoked for an anonymous request")
		}
		if validator.calls != 0 {
			t.Errorf("validator must not run without a credential, ran %d times", validator.calls)
		}
	})

	t.Run("present but invalid credential is rejected", func(t *testing.T) {
		validator := &stubValidator{err: errors.New("bad signature")}

		var handled error
		middleware := tokenware.New(tokenware.Config{
			Validator: validator,
			Optional:  true,
			ErrorHandler: func(ctx router.Context, err error) error {
				handled = err
				return err
			},
		})
		handler := middleware(passthrough)

		ctx := router.NewMockContext()
		ctx.HeadersM["Authorization"] = "Bearer tampered"
		ctx.On("GetString", "Authorization", "").Return("Bearer tampered")

		err := handler(ctx)
		if err == nil {
			t.Fatal("expected an error for an invalid credential, got nil")
		}
		if handled == nil || !strings.Contains(handled.Error(), "bad signature") {
			t.Errorf("expected the validation error to reach the error handler, got: %v", handled)
		}
		if ctx.NextCalled {
			t.Error("a request with a bad credential must not continue")
		}
	})
}

func TestTokenware_CustomTokenLookup(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{uid: "user-123"}}

	middleware := tokenware.New(tokenware.Config{
		Validator:   validator,
		TokenLookup: "query:access_token,cookie:auth_token",
		ErrorHandler: func(ctx router.Context, err error) error {
			return err
		},
	})
	handler := middleware(passthrough)

	// Query parameter
	ctx := router.NewMockContext()
	ctx.QueriesM["access_token"] = "tok-query"
	ctx.On("Query", "access_token", "").Return("tok-query").Maybe()
	ctx.On("Locals", "user", mock.Anything).Return(nil)

	if err := handler(ctx); err != nil {
		t.Fatalf("expected no error for query token, got %v", err)
	}
	if validator.seen != "tok-query" {
		t.Errorf("expected query token, validator saw %q", validator.seen)
	}

	// Cookie fallback
	ctx = router.NewMockContext()
	ctx.CookiesM["auth_token"] = "tok-cookie"
	ctx.On("Query", "access_token", "").Return("").Maybe()
	ctx.On("Cookies", "auth_token").Return("tok-cookie").Maybe()
	ctx.On("Locals", "user", mock.Anything).Return(nil)

	if err := handler(ctx); err != nil {
		t.Fatalf("expected no error for cookie token, got %v", err)
	}
	if validator.seen != "tok-cookie" {
		t.Errorf("expected cookie token, validator saw %q", validator.seen)
	}
}

// filterPathMock overrides Path() from the base MockContext.
type filterPathMock struct {
	*router.MockContext
	pathOverride string
}

func (m *filterPathMock) Path() string {
	return m.pathOverride
}

func TestTokenware_Filter(t *testing.T) {
	validator := &stubValidator{claims: stubClaims{uid: "user-123"}}

	middleware := tokenware.New(tokenware.Config{
		Validator: validator,
		Filter: func(ctx router.Context) bool {
			return ctx.Path() == "/health"
		},
	})
	handler := middleware(passthrough)

	ctx := &filterPathMock{
		MockContext:  router.NewMockContext(),
		pathOverride: "/health",
	}

	if err := handler(ctx); err != nil {
		t.Fatalf("expected the filter to skip the middleware, got %v", err)
	}
	if !ctx.NextCalled {
		t.Error("expected Next() to be invoked on filter skip")
	}
	if validator.calls != 0 {
		t.Errorf("validator must not run on a filtered route, ran %d times", validator.calls)
	}
}

func TestTokenware_ContextEnricher(t *testing.T) {
	type enricherKey struct{}

	validator := &stubValidator{claims: stubClaims{uid: "user-123"}}

	var enrichedWith string
	middleware := tokenware.New(tokenware.Config{
		Validator: validator,
		ContextEnricher: func(ctx context.Context, claims tokenware.AuthClaims) context.Context {
			enrichedWith = claims.UserID()
			return context.WithValue(ctx, enricherKey{}, claims.UserID())
		},
	})
	handler := middleware(passthrough)

	ctx := router.NewMockContext()
	ctx.HeadersM["Authorization"] = "Bearer token-abc"
	ctx.On("GetString", "Authorization", "").Return("Bearer token-abc")
	ctx.On("Locals", "user", mock.Anything).Return(nil)
	ctx.On("Context").Return(context.Background()).Maybe()
	ctx.On("SetContext", mock.Anything).Return().Maybe()

	if err := handler(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enrichedWith != "user-123" {
		t.Errorf("expected claims to reach the enricher, got %q", enrichedWith)
	}
}

func TestGetExtractors(t *testing.T) {
	extractors := tokenware.GetExtractors("header:Authorization,query:access_token,cookie:auth_token")
	if len(extractors) != 3 {
		t.Fatalf("expected 3 extractors, got %d", len(extractors))
	}

	extractors = tokenware.GetExtractors("bogus")
	if len(extractors) != 0 {
		t.Errorf("expected malformed lookup entries to be skipped, got %d extractors", len(extractors))
	}

	extractors = tokenware.GetExtractors(" header : Authorization , query : jwt ")
	if len(extractors) != 2 {
		t.Errorf("expected whitespace-tolerant parsing, got %d extractors", len(extractors))
	}
}
