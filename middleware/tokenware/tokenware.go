package tokenware

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup = "header:" + router.HeaderAuthorization

	// ErrTokenMissing reports that no credential was present in any of the
	// configured lookup sources.
	ErrTokenMissing = errors.New("missing bearer token")
)

// TokenValidator validates a raw token string. It mirrors the root
// package's TokenService.Validate to avoid an import cycle.
type TokenValidator interface {
	Validate(token string) (AuthClaims, error)
}

// AuthClaims mirrors the root package's claims surface without importing
// it.
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	Email() string
	Roles() []string
	HasRole(role string) bool
	IsAuthenticated() bool
}

type Config struct {
	// Filter skips the middleware when it returns true.
	Filter func(router.Context) bool

	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler

	// Validator checks the extracted token. Required unless JWKSetURLs is
	// set, in which case a JWKS-backed validator is built.
	Validator TokenValidator

	// JWKSetURLs lets deployments validate tokens signed by an external
	// issuer instead of the local signing key.
	JWKSetURLs []string

	ContextKey  string
	TokenLookup string
	AuthScheme  string

	// Optional lets requests without any credential continue as anonymous.
	// A credential that is present but fails validation is always an
	// error, optional or not.
	Optional bool

	// ContextEnricher propagates claims into the standard Go context so
	// code below the router sees them.
	ContextEnricher func(ctx context.Context, claims AuthClaims) context.Context
}

// New builds the bearer-token middleware. On success the claims are stored
// under ContextKey and, when a ContextEnricher is configured, threaded into
// the request's standard context.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawToken(ctx, cfg.getExtractors())
			if err != nil || raw == "" {
				if cfg.Optional {
					return ctx.Next()
				}
				return cfg.ErrorHandler(ctx, ErrTokenMissing)
			}

			claims, err := cfg.Validator.Validate(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, claims)

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), claims))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			if errors.Is(err, ErrTokenMissing) {
				return c.Status(router.StatusUnauthorized).SendString(ErrTokenMissing.Error())
			}
			return c.Status(router.StatusUnauthorized).SendString("invalid or expired token")
		}
	}

	if cfg.Validator == nil {
		if len(cfg.JWKSetURLs) == 0 {
			panic("tokenware: middleware configuration requires a Validator or JWKSetURLs")
		}
		validator, err := newJWKSValidator(cfg.JWKSetURLs)
		if err != nil {
			panic("tokenware: failed to build JWKS validator: " + err.Error())
		}
		cfg.Validator = validator
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// ExtractRawToken tries each extractor in order and returns the first
// non-empty result.
func ExtractRawToken(ctx router.Context, extractors []TokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

// GetExtractors parses a lookup string of the form
// "header:Authorization,cookie:user,query:access_token" into extractors.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

type TokenExtractor func(c router.Context) (string, error)

func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		authScheme = strings.TrimSpace(authScheme)
		l := len(authScheme)
		if l == 0 {
			return "", ErrTokenMissing
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrTokenMissing
	}
}

func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}
