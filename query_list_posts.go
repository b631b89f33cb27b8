package blog

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

// ListPostsMessage returns active posts, newest first. Open to anonymous
// callers; an optional author filter narrows the listing.
type ListPostsMessage struct {
	AuthorID string `json:"author_id,omitempty"`
}

func (e ListPostsMessage) Type() string { return "post.list" }

func (e ListPostsMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.AuthorID, is.UUID),
	)
}

type ListPostsHandler struct {
	pipeline *Pipeline
	posts    Posts
}

func NewListPostsHandler(pipeline *Pipeline, posts Posts) *ListPostsHandler {
	return &ListPostsHandler{
		pipeline: pipeline,
		posts:    posts,
	}
}

func (h *ListPostsHandler) Execute(ctx context.Context, msg ListPostsMessage) ([]*PostResponse, error) {
	return Query(ctx, h.pipeline, msg, nil, h.execute)
}

func (h *ListPostsHandler) execute(ctx context.Context, _ AuthClaims, msg ListPostsMessage) ([]*PostResponse, error) {
	var (
		records []*Post
		err     error
	)

	if msg.AuthorID != "" {
		records, err = h.posts.ListByAuthor(ctx, uuid.MustParse(msg.AuthorID))
	} else {
		records, err = h.posts.ListActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*PostResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewPostResponse(record))
	}
	return out, nil
}
