package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/dmitrijs2005/sailblog/internal/server/models"
)

// UserFinder resolves the subject of a verified token.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Guard turns a session token into the user it belongs to.
type Guard struct {
	tokens *TokenCodec
	users  UserFinder
}

func NewGuard(tokens *TokenCodec, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate returns the user a token was issued for. A missing, invalid
// or expired token and a token whose user no longer exists all yield
// common.ErrorUnauthenticated; the cause is kept in the chain for logging.
// It performs at most one user lookup and never mutates anything.
func (g *Guard) Authenticate(ctx context.Context, token string, now time.Time) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthenticated
	}

	claims, err := g.tokens.Verify(token, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthenticated, err)
	}

	user, err := g.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user %s no longer exists", common.ErrorUnauthenticated, claims.Subject)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return user, nil
}
