package blog

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is the wire shape for account records. The password hash
// never leaves the store layer.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
	Roles    []string  `json:"roles"`
}

func NewUserResponse(user *User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
		Roles:    append([]string{}, user.Roles...),
	}
}

// LoginUserResponse carries the minted bearer token plus the display
// identity of the authenticated account.
type LoginUserResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PostResponse is the wire shape for post records.
type PostResponse struct {
	ID        uuid.UUID  `json:"id"`
	Titulo    string     `json:"titulo"`
	Conteudo  string     `json:"conteudo"`
	AuthorID  uuid.UUID  `json:"author_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func NewPostResponse(post *Post) *PostResponse {
	if post == nil {
		return nil
	}
	return &PostResponse{
		ID:        post.ID,
		Titulo:    post.Title,
		Conteudo:  post.Content,
		AuthorID:  post.AuthorID,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}
