package blog

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the verified identity attached to one request. Instances
// are request-scoped: built by TokenService.Validate on inbound requests or
// by the login flow right before signing, never persisted.
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	Email() string
	Roles() []string
	HasRole(role string) bool
	IsAuthenticated() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete wire representation of AuthClaims. Roles travel
// under the single canonical "roles" claim key; the legacy duplicate
// spellings ("rol", ClaimTypes.Role) are not emitted.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string   `json:"uid,omitempty"`
	Name      string   `json:"username,omitempty"`
	UserEmail string   `json:"email,omitempty"`
	UserRoles []string `json:"roles,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject claim
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Username returns the account username
func (c *JWTClaims) Username() string {
	return c.Name
}

// Email returns the account email
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// Roles returns the role set carried by the token. The slice order is not
// meaningful.
func (c *JWTClaims) Roles() []string {
	return c.UserRoles
}

// HasRole checks membership in the role set
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAuthenticated reports whether the claims identify a verified subject.
// Anonymous claims have an empty subject and always answer false.
func (c *JWTClaims) IsAuthenticated() bool {
	return c.UserID() != ""
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// AnonymousClaims returns the claims attached to requests that carry no
// credential: empty subject, no roles. Operations that require a verified
// subject must check IsAuthenticated explicitly.
func AnonymousClaims() AuthClaims {
	return &JWTClaims{}
}
