// Package revisions defines the revision repository contract shared by the
// primary (PostgreSQL) and secondary (DynamoDB) stores, plus both concrete
// implementations.
package revisions

import (
	"context"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/domain"
)

// Page selects one page of a user's revisions.
type Page struct {
	UserID uuid.UUID
	Offset int
	Limit  int
}

// Repository is the data-store contract the transition engine depends on for
// both the primary and the secondary revision store.
type Repository interface {
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	FindByUserID(ctx context.Context, page Page) ([]domain.Revision, error)
	FindOneByUUID(ctx context.Context, revisionID, userID uuid.UUID) (domain.Revision, bool, error)
	Insert(ctx context.Context, r domain.Revision) (bool, error)
	RemoveOneByUUID(ctx context.Context, revisionID, userID uuid.UUID) error
	RemoveByUserID(ctx context.Context, userID uuid.UUID) error
}
