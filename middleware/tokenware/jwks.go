package tokenware

import (
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// jwksValidator validates tokens signed by an external issuer using its
// published JWK Set. Used when the deployment delegates token minting
// instead of signing locally.
type jwksValidator struct {
	keyfunc jwt.Keyfunc
}

func newJWKSValidator(urls []string) (*jwksValidator, error) {
	m := make(map[string]keyfunc.Options, len(urls))
	for _, url := range urls {
		m[url] = keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				log.Printf("tokenware: background JWK Set refresh failed: %s", err)
			},
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
		}
	}

	multi, err := keyfunc.GetMultiple(m, keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWK Set URLs: %w", err)
	}

	return &jwksValidator{keyfunc: multi.Keyfunc}, nil
}

// remoteClaims carries the same claim keys the service mints locally.
type remoteClaims struct {
	jwt.RegisteredClaims
	UID       string   `json:"uid"`
	Name      string   `json:"username"`
	UserEmail string   `json:"email"`
	UserRoles []string `json:"roles"`
}

func (c *remoteClaims) Subject() string {
	sub, _ := c.GetSubject()
	return sub
}

func (c *remoteClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

func (c *remoteClaims) Username() string { return c.Name }
func (c *remoteClaims) Email() string    { return c.UserEmail }

func (c *remoteClaims) Roles() []string {
	return append([]string(nil), c.UserRoles...)
}

func (c *remoteClaims) HasRole(role string) bool {
	for _, r := range c.UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (c *remoteClaims) IsAuthenticated() bool { return c.UserID() != "" }

func (v *jwksValidator) Validate(token string) (AuthClaims, error) {
	claims := &remoteClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.keyfunc,
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
