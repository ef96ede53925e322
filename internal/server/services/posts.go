package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/dmitrijs2005/sailblog/internal/dbx"
	"github.com/dmitrijs2005/sailblog/internal/server/auth"
	"github.com/dmitrijs2005/sailblog/internal/server/models"
	"github.com/dmitrijs2005/sailblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sailblog/internal/server/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	authorizer  auth.Authorizer

	now   func() time.Time
	newID func() string
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, authorizer auth.Authorizer) *PostService {
	return &PostService{
		db:          db,
		repomanager: m,
		authorizer:  authorizer,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// List returns every post summary, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.PostSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "posts.list", tracing.Layer("service"))
	defer span.End()

	items, err := s.repomanager.Posts(s.db).List(ctx)
	if err != nil {
		return nil, tracing.Fail(span, fmt.Errorf("error listing posts: %w", err))
	}
	span.SetAttributes(attribute.Int("posts.count", len(items)))
	return items, nil
}

// Get returns one post with its owner's nickname. An id that is not a UUID
// cannot exist and yields common.ErrorNotFound without a query.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	ctx, span := tracing.StartSpan(ctx, "posts.get", tracing.Layer("service"),
		trace.WithAttributes(attribute.String("post.id", id)))
	defer span.End()

	if !isUUID(id) {
		return nil, common.ErrorNotFound
	}

	post, err := s.repomanager.Posts(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, tracing.Fail(span, fmt.Errorf("error loading post: %w", err))
	}
	return post, nil
}

// Create stores a new post owned by user.
func (s *PostService) Create(ctx context.Context, user *models.User, title, content string) (*models.Post, error) {
	ctx, span := tracing.StartSpan(ctx, "posts.create", tracing.Layer("service"),
		trace.WithAttributes(attribute.String("user.id", user.ID)))
	defer span.End()

	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	post := &models.Post{
		ID:        s.newID(),
		UserID:    user.ID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Nickname:  user.Nickname,
	}

	if err := s.repomanager.Posts(s.db).Create(ctx, post); err != nil {
		return nil, tracing.Fail(span, fmt.Errorf("error creating post: %w", err))
	}
	return post, nil
}

// Update replaces title and content of a post owned by user. A post that is
// missing or owned by someone else yields common.ErrorForbidden.
func (s *PostService) Update(ctx context.Context, user *models.User, id, title, content string) (*models.Post, error) {
	ctx, span := tracing.StartSpan(ctx, "posts.update", tracing.Layer("service"),
		trace.WithAttributes(attribute.String("user.id", user.ID), attribute.String("post.id", id)))
	defer span.End()

	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	var updated *models.Post
	err := s.withOwnedPost(ctx, user, id, func(ctx context.Context, tx dbx.DBTX, post *models.Post) error {
		post.Title = title
		post.Content = content
		post.UpdatedAt = s.now().UTC()
		if err := s.repomanager.Posts(tx).Update(ctx, post); err != nil {
			return fmt.Errorf("error updating post: %w", err)
		}
		updated = post
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrorForbidden) {
			tracing.Fail(span, err)
		}
		return nil, err
	}

	updated.Nickname = user.Nickname
	return updated, nil
}

// Delete removes a post owned by user, with the same ownership rule as Update.
func (s *PostService) Delete(ctx context.Context, user *models.User, id string) error {
	ctx, span := tracing.StartSpan(ctx, "posts.delete", tracing.Layer("service"),
		trace.WithAttributes(attribute.String("user.id", user.ID), attribute.String("post.id", id)))
	defer span.End()

	err := s.withOwnedPost(ctx, user, id, func(ctx context.Context, tx dbx.DBTX, post *models.Post) error {
		if err := s.repomanager.Posts(tx).Delete(ctx, post); err != nil {
			return fmt.Errorf("error deleting post: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, common.ErrorForbidden) {
		tracing.Fail(span, err)
	}
	return err
}

// withOwnedPost runs fn in a transaction on the post id scoped to user,
// after the authorizer has allowed the mutation. The row stays locked
// until fn returns.
func (s *PostService) withOwnedPost(ctx context.Context, user *models.User, id string,
	fn func(ctx context.Context, tx dbx.DBTX, post *models.Post) error) error {

	if !isUUID(id) {
		return common.ErrorForbidden
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		post, err := s.repomanager.Posts(tx).FindByIDAndOwner(ctx, id, user.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorForbidden
			}
			return fmt.Errorf("error loading post: %w", err)
		}

		if err := s.authorizer.Authorize(user.ID, post.UserID); err != nil {
			return err
		}

		return fn(ctx, tx, post)
	})
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
