package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkazakov/studentapi/internal/dbx"
	"github.com/dkazakov/studentapi/internal/server/repositories/students"
)

// RepositoryManager builds repositories bound to a DB handle or transaction
// and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Students(db dbx.DBTX) students.Repository
	InTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error
}
