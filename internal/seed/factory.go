// Package seed creates demo posts for local development. It writes through the
// post repository and never creates or alters schema.
package seed

import (
	"context"
	"fmt"

	"postboard/internal/models"
	"postboard/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds fake posts and persists them.
type Factory struct {
	repo  repository.PostRepository
	faker *gofakeit.Faker
}

// NewFactory creates a Factory. A zero seed picks a random one.
func NewFactory(repo repository.PostRepository, seed int64) *Factory {
	return &Factory{repo: repo, faker: gofakeit.New(seed)}
}

// BuildPost constructs a post without persisting it. Roughly one in five
// posts has no description.
func (f *Factory) BuildPost() *models.Post {
	post := &models.Post{
		Title: f.faker.Sentence(5),
	}
	if f.faker.Number(1, 5) > 1 {
		desc := f.faker.Paragraph(1, 3, 12, " ")
		post.Description = &desc
	}
	return post
}

// SeedPosts inserts n posts and returns them with their assigned ids.
func (f *Factory) SeedPosts(ctx context.Context, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := f.BuildPost()
		if err := f.repo.Create(ctx, post); err != nil {
			return posts, fmt.Errorf("insert post %d of %d: %w", i+1, n, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}
