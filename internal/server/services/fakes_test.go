package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/dmitrijs2005/sailblog/internal/dbx"
	"github.com/dmitrijs2005/sailblog/internal/server/models"
	"github.com/dmitrijs2005/sailblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/sailblog/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	mu        sync.Mutex
	byNick    map[string]*models.User
	createErr error
	getErr    error
	creates   int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byNick: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byNick[u.Nickname]; ok {
		return nil, common.ErrorAlreadyExists
	}
	cp := *u
	f.byNick[u.Nickname] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByNickname(_ context.Context, nickname string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byNick[nickname]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byNick {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakePostsRepo struct {
	mu     sync.Mutex
	byID   map[string]*models.Post
	order  []string
	err    error
	finds  int
	writes int
}

func newFakePostsRepo() *fakePostsRepo {
	return &fakePostsRepo{byID: map[string]*models.Post{}}
}

func (f *fakePostsRepo) Create(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *p
	f.byID[p.ID] = &cp
	f.order = append(f.order, p.ID)
	return nil
}

// List returns rows in insertion order; ordering is the store's job and is
// covered by the postgres repository tests.
func (f *fakePostsRepo) List(context.Context) ([]*models.PostSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.PostSummary, 0, len(f.byID))
	for _, id := range f.order {
		if p, ok := f.byID[id]; ok {
			out = append(out, &models.PostSummary{ID: p.ID, Title: p.Title, CreatedAt: p.CreatedAt, Nickname: p.Nickname})
		}
	}
	return out, nil
}

func (f *fakePostsRepo) FindByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostsRepo) FindByIDAndOwner(_ context.Context, id, ownerID string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[id]
	if !ok || p.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostsRepo) Update(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePostsRepo) Delete(_ context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	delete(f.byID, p.ID)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakePostsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Posts(dbx.DBTX) posts.Repository             { return m.p }
