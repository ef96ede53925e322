// Package services contains server-side business logic. UserService handles
// signup and login; PostService handles post reads and owner-only mutations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/dmitrijs2005/sailblog/internal/server/auth"
	"github.com/dmitrijs2005/sailblog/internal/server/models"
	"github.com/dmitrijs2005/sailblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sailblog/internal/server/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenCodec

	now   func() time.Time
	newID func() string

	dummyOnce   sync.Once
	dummyDigest string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenCodec) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Signup validates input, hashes the password and stores a new user.
// Invalid input yields a *common.ValidationError before storage is touched;
// a taken nickname yields common.ErrorAlreadyExists.
func (s *UserService) Signup(ctx context.Context, nickname, password, confirmation string) (*models.User, error) {
	ctx, span := tracing.StartSpan(ctx, "users.signup", tracing.Layer("service"),
		trace.WithAttributes(attribute.String("nickname", nickname)))
	defer span.End()

	if err := validateSignup(nickname, password, confirmation); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, tracing.Fail(span, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err))
	}

	user := &models.User{ID: s.newID(), Nickname: nickname, PasswordHash: digest}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, tracing.Fail(span, fmt.Errorf("error creating user: %w", err))
	}

	return created, nil
}

// Login checks credentials and returns a freshly issued session token.
// An unknown nickname and a wrong password both yield
// common.ErrorInvalidCredentials, and both pay for one bcrypt comparison.
func (s *UserService) Login(ctx context.Context, nickname, password string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "users.login", tracing.Layer("service"),
		trace.WithAttributes(attribute.String("nickname", nickname)))
	defer span.End()

	user, err := s.repomanager.Users(s.db).GetUserByNickname(ctx, nickname)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return "", tracing.Fail(span, fmt.Errorf("%w: %w", common.ErrorInternal, err))
		}
		s.hasher.Verify(password, s.fallbackDigest())
		span.SetAttributes(attribute.Bool("auth.success", false))
		return "", common.ErrorInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return "", common.ErrorInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Nickname, s.now())
	if err != nil {
		return "", tracing.Fail(span, fmt.Errorf("%w: issue token: %w", common.ErrorInternal, err))
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	return token, nil
}

// GetUserByID loads a user; it is what the auth guard resolves tokens with.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, id)
}

// staticFallbackDigest is a bcrypt digest of cost 10 used when a fresh
// fallback digest cannot be computed.
const staticFallbackDigest = "$2a$10$XajjQvNhvvRt5GSeFk1xFeyqRrsxkhBkUiQeg0dt.wU1qD4aFDcga"

// fallbackDigest is compared against when the nickname is unknown so that
// the response time does not reveal whether an account exists. It is
// computed once with the configured cost.
func (s *UserService) fallbackDigest() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			digest = staticFallbackDigest
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}
