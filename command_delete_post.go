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

// DeletePostMessage inactivates a post. The record stays in the store with
// the actor and timestamp of the removal; listings stop returning it. Only
// the owner or an administrator may delete.
type DeletePostMessage struct {
	ID string `json:"id"`
}

func (e DeletePostMessage) Type() string { return "post.delete" }

func (e DeletePostMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, is.UUID),
	)
}

type DeletePostHandler struct {
	pipeline *Pipeline
	posts    Posts
}

func NewDeletePostHandler(pipeline *Pipeline, posts Posts) *DeletePostHandler {
	return &DeletePostHandler{
		pipeline: pipeline,
		posts:    posts,
	}
}

func (h *DeletePostHandler) Execute(ctx context.Context, msg DeletePostMessage) (string, error) {
	return Execute(ctx, h.pipeline, msg, []Rule{RequireAuthenticated()}, h.execute)
}

func (h *DeletePostHandler) execute(ctx context.Context, tx bun.IDB, claims AuthClaims, msg DeletePostMessage) (string, error) {
	actor, err := actorID(claims)
	if err != nil {
		return "", err
	}

	post, err := h.posts.GetByIDTx(ctx, tx, uuid.MustParse(msg.ID))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return "", ErrPostNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load post")
	}

	if err := Authorize(claims, RequireOwnerOrRole(post.AuthorID.String(), RoleAdmin)); err != nil {
		return "", ErrPostAccessDenied
	}

	if err := h.posts.InactivateTx(ctx, tx, post, actor); err != nil {
		if repository.IsRecordNotFound(err) {
			return "", ErrPostNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete post")
	}

	return post.ID.String(), nil
}
