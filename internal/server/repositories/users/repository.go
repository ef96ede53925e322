// Package users provides persistence of user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/sailblog/internal/server/models"
)

// Repository is the user store contract. Lookups return common.ErrorNotFound
// when no row matches; Create returns common.ErrorAlreadyExists when the
// nickname is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByNickname(ctx context.Context, nickname string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
