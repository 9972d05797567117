// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via
// goose), plus a standalone constructor for the DynamoDB-backed secondary
// revision store.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/syncd-project/syncd/internal/dbx"
	"github.com/syncd-project/syncd/internal/server/migrations"
	"github.com/syncd-project/syncd/internal/server/repositories/items"
	"github.com/syncd-project/syncd/internal/server/repositories/revisions"
	"github.com/syncd-project/syncd/internal/server/repositories/transitionstatus"
	"github.com/syncd-project/syncd/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Items returns an items.Repository. Unlike the other repositories it takes
// a *sql.DB directly since it manages its own multi-table transaction.
func (m *PostgresRepositoryManager) Items(db *sql.DB) items.Repository {
	return items.NewPostgresRepository(db)
}

// TransitionStatuses returns a transitionstatus.Repository bound to the
// provided DBTX.
func (m *PostgresRepositoryManager) TransitionStatuses(db dbx.DBTX) transitionstatus.Repository {
	return transitionstatus.NewPostgresRepository(db)
}

// PrimaryRevisions returns a revisions.Repository backed by the primary
// store, bound to the provided DBTX.
func (m *PostgresRepositoryManager) PrimaryRevisions(db dbx.DBTX) revisions.Repository {
	return revisions.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed
// RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}

// NewSecondaryRevisions constructs the DynamoDB-backed secondary revision
// store. It is not part of RepositoryManager because it has no dbx.DBTX
// counterpart — there is exactly one secondary store, not one per
// transaction.
func NewSecondaryRevisions(ctx context.Context, region, endpoint, tableName string) (revisions.Repository, error) {
	return revisions.NewDynamoDBRepository(ctx, region, endpoint, tableName)
}
