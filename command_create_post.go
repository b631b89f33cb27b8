package blog

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreatePostMessage publishes a new post owned by the authenticated caller.
type CreatePostMessage struct {
	Titulo   string `json:"titulo"`
	Conteudo string `json:"conteudo"`
}

func (e CreatePostMessage) Type() string { return "post.create" }

func (e CreatePostMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Titulo, validation.Required, validation.Length(1, 150)),
		validation.Field(&e.Conteudo, validation.Required),
	)
}

type CreatePostHandler struct {
	pipeline *Pipeline
	posts    Posts
}

func NewCreatePostHandler(pipeline *Pipeline, posts Posts) *CreatePostHandler {
	return &CreatePostHandler{
		pipeline: pipeline,
		posts:    posts,
	}
}

func (h *CreatePostHandler) Execute(ctx context.Context, msg CreatePostMessage) (*PostResponse, error) {
	return Execute(ctx, h.pipeline, msg, []Rule{RequireAuthenticated()}, h.execute)
}

func (h *CreatePostHandler) execute(ctx context.Context, tx bun.IDB, claims AuthClaims, msg CreatePostMessage) (*PostResponse, error) {
	author, err := actorID(claims)
	if err != nil {
		return nil, err
	}

	post := &Post{
		Title:    msg.Titulo,
		Content:  msg.Conteudo,
		AuthorID: author,
	}

	created, err := h.posts.CreateTx(ctx, tx, post)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create post")
	}

	return NewPostResponse(created), nil
}

// actorID parses the token subject into the uuid used for ownership and
// audit columns.
func actorID(claims AuthClaims) (uuid.UUID, error) {
	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return uuid.Nil, ErrNotAuthenticated
	}
	return id, nil
}
