package posts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/dmitrijs2005/sailblog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertQ  = regexp.MustCompile(`INSERT INTO posts \(id, user_id, title, content, created_at, updated_at\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)`).String()
	listQ    = regexp.MustCompile(`SELECT p\.id, p\.title, p\.created_at, u\.nickname\s+FROM posts p\s+JOIN users u ON u\.id = p\.user_id\s+ORDER BY p\.created_at DESC, p\.id DESC`).String()
	byIDQ    = regexp.MustCompile(`SELECT p\.id, p\.user_id, .* FROM posts p\s+JOIN users u ON u\.id = p\.user_id\s+WHERE p\.id = \$1`).String()
	scopedQ  = regexp.MustCompile(`SELECT id, user_id, title, content, created_at, updated_at\s+FROM posts\s+WHERE id = \$1 AND user_id = \$2\s+FOR UPDATE`).String()
	updateQ  = regexp.MustCompile(`UPDATE posts\s+SET title = \$1, content = \$2, updated_at = \$3\s+WHERE id = \$4`).String()
	deleteQ  = regexp.MustCompile(`DELETE FROM posts\s+WHERE id = \$1`).String()
	fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(insertQ).
		WithArgs("p1", "u1", "Title", "Body", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Post{
		ID: "p1", UserID: "u1", Title: "Title", Content: "Body", CreatedAt: fixedNow, UpdatedAt: fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(insertQ).WillReturnError(errors.New("fk violation"))

	err := repo.Create(context.Background(), &models.Post{ID: "p1"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*fk violation`, err.Error())
}

func TestList_NewestFirst(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "title", "created_at", "nickname"}).
		AddRow("p2", "second", fixedNow.Add(time.Minute), "bob").
		AddRow("p1", "first", fixedNow, "alice")
	mock.ExpectQuery(listQ).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, "bob", got[0].Nickname)
	assert.Equal(t, "p1", got[1].ID)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at", "nickname"}))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_QueryAndScanErrors(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WillReturnError(errors.New("boom"))
	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Regexp(t, `failed to select posts: .*boom`, err.Error())

	mock.ExpectQuery(listQ).WillReturnRows(
		sqlmock.NewRows([]string{"id", "title", "created_at", "nickname"}).AddRow("p1", "t", "not-a-time", "x"))
	_, err = repo.List(context.Background())
	require.Error(t, err)

	mock.ExpectQuery(listQ).WillReturnRows(
		sqlmock.NewRows([]string{"id", "title", "created_at", "nickname"}).
			AddRow("p1", "t", fixedNow, "x").
			RowError(0, errors.New("row err")))
	_, err = repo.List(context.Background())
	require.Error(t, err)
}

func TestFindByID(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	cols := []string{"id", "user_id", "title", "content", "created_at", "updated_at", "nickname"}
	mock.ExpectQuery(byIDQ).WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("p1", "u1", "T", "C", fixedNow, fixedNow, "alice"))
	mock.ExpectQuery(byIDQ).WithArgs("p0").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(byIDQ).WithArgs("px").WillReturnError(errors.New("db err"))

	got, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Nickname)
	assert.Equal(t, "u1", got.UserID)

	_, err = repo.FindByID(context.Background(), "p0")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.FindByID(context.Background(), "px")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestFindByIDAndOwner(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	cols := []string{"id", "user_id", "title", "content", "created_at", "updated_at"}
	mock.ExpectQuery(scopedQ).WithArgs("p1", "u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("p1", "u1", "T", "C", fixedNow, fixedNow))
	mock.ExpectQuery(scopedQ).WithArgs("p1", "u2").WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByIDAndOwner(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)

	_, err = repo.FindByIDAndOwner(context.Background(), "p1", "u2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	post := &models.Post{ID: "p1", Title: "new", Content: "body", UpdatedAt: fixedNow}

	mock.ExpectExec(updateQ).WithArgs("new", "body", fixedNow, "p1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), post))

	mock.ExpectExec(updateQ).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), post), common.ErrorNotFound)

	mock.ExpectExec(updateQ).WillReturnResult(sqlmock.NewResult(0, 2))
	err := repo.Update(context.Background(), post)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected rows affected: 2")

	mock.ExpectExec(updateQ).WillReturnError(errors.New("db down"))
	err = repo.Update(context.Background(), post)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")

	mock.ExpectExec(updateQ).WillReturnResult(sqlmock.NewErrorResult(errors.New("ra")))
	err = repo.Update(context.Background(), post)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows affected error")
}

func TestDelete(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	post := &models.Post{ID: "p1"}

	mock.ExpectExec(deleteQ).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), post))

	mock.ExpectExec(deleteQ).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), post), common.ErrorNotFound)

	mock.ExpectExec(deleteQ).WithArgs("p1").WillReturnError(errors.New("db down"))
	require.Error(t, repo.Delete(context.Background(), post))
	require.NoError(t, mock.ExpectationsWereMet())
}
