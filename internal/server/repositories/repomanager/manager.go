package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/readlist/internal/dbx"
	"github.com/dmitrijs2005/readlist/internal/server/repositories/books"
	"github.com/dmitrijs2005/readlist/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Books(db dbx.DBTX) books.Repository
}
