package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sailblog/internal/dbx"
	"github.com/dmitrijs2005/sailblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/sailblog/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so services can run
// them either directly on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
}
