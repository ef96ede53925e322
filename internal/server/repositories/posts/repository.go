// Package posts provides persistence of posts.
package posts

import (
	"context"

	"github.com/dmitrijs2005/sailblog/internal/server/models"
)

// Repository is the post store contract. Single-row lookups return
// common.ErrorNotFound when nothing matches.
type Repository interface {
	Create(ctx context.Context, post *models.Post) error
	// List returns summaries ordered by creation time, newest first.
	List(ctx context.Context) ([]*models.PostSummary, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	// FindByIDAndOwner is the ownership-scoped lookup: a post owned by
	// someone else is reported exactly like a missing one. The row is
	// locked until the surrounding transaction ends.
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, post *models.Post) error
}
