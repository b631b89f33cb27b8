package blog

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EditPostMessage rewrites a post's title and content. Only the owner or an
// administrator may edit; the ownership check runs after the record is
// loaded inside the request transaction.
type EditPostMessage struct {
	ID       string `json:"id"`
	Titulo   string `json:"titulo"`
	Conteudo string `json:"conteudo"`
}

func (e EditPostMessage) Type() string { return "post.edit" }

func (e EditPostMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, is.UUID),
		validation.Field(&e.Titulo, validation.Required, validation.Length(1, 150)),
		validation.Field(&e.Conteudo, validation.Required),
	)
}

type EditPostHandler struct {
	pipeline *Pipeline
	posts    Posts
}

func NewEditPostHandler(pipeline *Pipeline, posts Posts) *EditPostHandler {
	return &EditPostHandler{
		pipeline: pipeline,
		posts:    posts,
	}
}

func (h *EditPostHandler) Execute(ctx context.Context, msg EditPostMessage) (*PostResponse, error) {
	return Execute(ctx, h.pipeline, msg, []Rule{RequireAuthenticated()}, h.execute)
}

func (h *EditPostHandler) execute(ctx context.Context, tx bun.IDB, claims AuthClaims, msg EditPostMessage) (*PostResponse, error) {
	actor, err := actorID(claims)
	if err != nil {
		return nil, err
	}

	post, err := h.posts.GetByIDTx(ctx, tx, uuid.MustParse(msg.ID))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load post")
	}

	if err := Authorize(claims, RequireOwnerOrRole(post.AuthorID.String(), RoleAdmin)); err != nil {
		return nil, ErrPostAccessDenied
	}

	post.Title = msg.Titulo
	post.Content = msg.Conteudo
	post.MarkUpdated(actor)

	updated, err := h.posts.UpdateTx(ctx, tx, post)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update post")
	}

	return NewPostResponse(updated), nil
}
