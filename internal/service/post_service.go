// Package service holds the business rules between the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"

	"postboard/internal/models"
	"postboard/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// PostService validates requests and translates repository outcomes into AppErrors.
type PostService struct {
	postRepo repository.PostRepository
	validate *validator.Validate
}

// CreatePostInput carries the fields of a new post.
type CreatePostInput struct {
	Title       string `validate:"required"`
	Description *string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ListPosts returns every post, newest first. The result is never nil.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return post, nil
}

// CreatePost inserts a post. The returned post carries the assigned id and the
// submitted fields; createdAt is left to the storage engine and not re-read.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, models.NewValidationError("Title is required")
	}

	post := &models.Post{
		Title:       in.Title,
		Description: in.Description,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// UpdatePost writes the provided fields of patch. Fields that are absent or
// empty keep their stored value.
func (s *PostService) UpdatePost(ctx context.Context, id uint, patch models.PostPatch) error {
	if patch.Empty() {
		return models.NewValidationError("At least one field (title or description) is required")
	}
	if err := s.postRepo.Update(ctx, id, patch); err != nil {
		return mapRepoError(err, id)
	}
	return nil
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}
	return nil
}

func mapRepoError(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", id)
	}
	return models.NewInternalError(err)
}
