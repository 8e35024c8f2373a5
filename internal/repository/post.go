// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"postboard/internal/models"
	"postboard/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEmptyPatch is returned by Update when the patch carries no column to write.
var ErrEmptyPatch = errors.New("update has no fields to write")

// PostRepository defines the interface for post data operations. Every method
// issues exactly one SQL statement. Lookups, updates and deletes that match no
// row return gorm.ErrRecordNotFound.
type PostRepository interface {
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id uint, patch models.PostPatch) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func byID(id uint) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: "idPost"}, Value: id}
}

// newestFirst orders by creation time, breaking ties on the id so rows created
// within the same timestamp tick still list newest first.
var newestFirst = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "createdAt"}, Desc: true},
	{Column: clause.Column{Name: "idPost"}, Desc: true},
}}

// observe starts a span and a latency timer for one statement. The returned
// function must be called with the statement's outcome.
func (r *postRepository) observe(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := observability.StartRepositorySpan(ctx, r.db.Dialector.Name(), op, models.PostTable)
	done := observability.TrackQuery(op, models.PostTable)
	return ctx, func(err error) {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = nil
		}
		done(err)
		observability.EndSpan(span, err)
	}
}

func (r *postRepository) List(ctx context.Context) (posts []*models.Post, err error) {
	ctx, finish := r.observe(ctx, "list")
	defer func() { finish(err) }()

	posts = make([]*models.Post, 0)
	if err = r.db.WithContext(ctx).Order(newestFirst).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (_ *models.Post, err error) {
	ctx, finish := r.observe(ctx, "get")
	defer func() { finish(err) }()

	var post models.Post
	if err = r.db.WithContext(ctx).Where(byID(id)).Take(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, finish := r.observe(ctx, "create")
	defer func() { finish(err) }()

	err = r.db.WithContext(ctx).Create(post).Error
	return err
}

func (r *postRepository) Update(ctx context.Context, id uint, patch models.PostPatch) (err error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return ErrEmptyPatch
	}

	ctx, finish := r.observe(ctx, "update")
	defer func() { finish(err) }()

	result := r.db.WithContext(ctx).Model(&models.Post{}).Where(byID(id)).Updates(cols)
	if err = result.Error; err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		err = gorm.ErrRecordNotFound
	}
	return err
}

func (r *postRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, finish := r.observe(ctx, "delete")
	defer func() { finish(err) }()

	result := r.db.WithContext(ctx).Where(byID(id)).Delete(&models.Post{})
	if err = result.Error; err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		err = gorm.ErrRecordNotFound
	}
	return err
}
