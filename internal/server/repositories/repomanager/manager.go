package repomanager

import (
	"context"
	"database/sql"

	"github.com/syncd-project/syncd/internal/dbx"
	"github.com/syncd-project/syncd/internal/server/repositories/items"
	"github.com/syncd-project/syncd/internal/server/repositories/revisions"
	"github.com/syncd-project/syncd/internal/server/repositories/transitionstatus"
	"github.com/syncd-project/syncd/internal/server/repositories/users"
)

// RepositoryManager vends the primary-store repository implementations and
// exposes the schema migration hook. The secondary revision store is vended
// separately since it is not bound to a dbx.DBTX (no shared transactions
// with the primary store).
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Items(db *sql.DB) items.Repository
	TransitionStatuses(db dbx.DBTX) transitionstatus.Repository
	PrimaryRevisions(db dbx.DBTX) revisions.Repository
}
