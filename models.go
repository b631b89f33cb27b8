package blog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is a role name attached to a user account
type UserRole = string

const (
	// RoleMember is the default role for registered users
	RoleMember UserRole = "member"
	// RoleAdmin can manage users and override post ownership checks
	RoleAdmin UserRole = "admin"
)

// User is the account model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Roles         []string   `bun:"roles,type:jsonb" json:"roles,omitempty"`
	LoggedInAt    *time.Time `bun:"loggedin_at,nullzero" json:"loggedin_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole appends a role if the user does not hold it yet.
func (u *User) AddRole(role string) *User {
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
	return u
}

// RemoveRole drops a role from the user's role set.
func (u *User) RemoveRole(role string) *User {
	next := u.Roles[:0]
	for _, r := range u.Roles {
		if r != role {
			next = append(next, r)
		}
	}
	u.Roles = next
	return u
}

// NormalizeEmail lowercases and trims an email identifier. Uniqueness
// checks run against the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Post is an owned resource: only its author, or an admin, may mutate or
// delete it. Deletion is a soft inactivation.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"titulo,omitempty"`
	Content       string     `bun:"content,notnull" json:"conteudo,omitempty"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id,omitempty"`
	Inactive      bool       `bun:"inactive,default:false" json:"inactive,omitempty"`
	UpdatedBy     *uuid.UUID `bun:"updated_by,nullzero,type:uuid" json:"updated_by,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// IsOwnedBy reports whether subject is the post author.
func (p *Post) IsOwnedBy(subject string) bool {
	if p == nil || subject == "" {
		return false
	}
	return p.AuthorID.String() == subject
}

// MarkUpdated stamps the audit columns for a mutation by actor.
func (p *Post) MarkUpdated(actor uuid.UUID) *Post {
	now := time.Now()
	p.UpdatedAt = &now
	p.UpdatedBy = &actor
	return p
}
