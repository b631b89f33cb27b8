package blog

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Posts persists the owned post resource. Lookups never resurrect
// inactivated records; deletion is a soft inactivation that preserves the
// audit trail.
type Posts interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	CreateTx(ctx context.Context, tx bun.IDB, post *Post) (*Post, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Post, error)

	Update(ctx context.Context, post *Post) (*Post, error)
	UpdateTx(ctx context.Context, tx bun.IDB, post *Post) (*Post, error)

	Inactivate(ctx context.Context, post *Post, actor uuid.UUID) error
	InactivateTx(ctx context.Context, tx bun.IDB, post *Post, actor uuid.UUID) error

	ListActive(ctx context.Context) ([]*Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Post, error)
}

type posts struct {
	db *bun.DB
}

var _ Posts = (*posts)(nil)

func NewPostsRepository(db *bun.DB) Posts {
	return &posts{db: db}
}

func (r *posts) Create(ctx context.Context, post *Post) (*Post, error) {
	return r.CreateTx(ctx, r.db, post)
}

func (r *posts) CreateTx(ctx context.Context, tx bun.IDB, post *Post) (*Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.CreatedAt == nil {
		now := time.Now()
		post.CreatedAt = &now
	}

	if _, err := tx.NewInsert().Model(post).Exec(ctx); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *posts) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

func (r *posts) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Post, error) {
	record := &Post{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.inactive = ?", false).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *posts) Update(ctx context.Context, post *Post) (*Post, error) {
	return r.UpdateTx(ctx, r.db, post)
}

func (r *posts) UpdateTx(ctx context.Context, tx bun.IDB, post *Post) (*Post, error) {
	res, err := tx.NewUpdate().
		Model(post).
		Column("title", "content", "updated_at", "updated_by").
		Where("?TableAlias.id = ?", post.ID).
		Where("?TableAlias.inactive = ?", false).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": post.ID.String()})
	}

	return post, nil
}

func (r *posts) Inactivate(ctx context.Context, post *Post, actor uuid.UUID) error {
	return r.InactivateTx(ctx, r.db, post, actor)
}

func (r *posts) InactivateTx(ctx context.Context, tx bun.IDB, post *Post, actor uuid.UUID) error {
	now := time.Now()
	res, err := tx.NewUpdate().
		Model((*Post)(nil)).
		Set("inactive = ?", true).
		Set("updated_at = ?", now).
		Set("updated_by = ?", actor).
		Where("?TableAlias.id = ?", post.ID).
		Where("?TableAlias.inactive = ?", false).
		Exec(ctx)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": post.ID.String()})
	}

	return nil
}

func (r *posts) ListActive(ctx context.Context) ([]*Post, error) {
	var records []*Post
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.inactive = ?", false).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *posts) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Post, error) {
	var records []*Post
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.author_id = ?", authorID).
		Where("?TableAlias.inactive = ?", false).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
