// Package items defines the item repository contract the Sync Item Updater
// persists through, plus a PostgreSQL implementation.
package items

import (
	"context"

	"github.com/syncd-project/syncd/internal/domain"
)

// Repository is the data-store contract for the server-held item state.
type Repository interface {
	Save(ctx context.Context, item domain.Item) error
}
