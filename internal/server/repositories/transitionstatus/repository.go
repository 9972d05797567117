// Package transitionstatus defines the durable (userId, transitionType) ->
// progress contract the migrator and verifier use to make migration
// resumable, plus a PostgreSQL implementation.
package transitionstatus

import (
	"context"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/domain"
)

// Repository is the transition status store contract of spec §4.4. Remove
// must clear status and both progress counters atomically.
type Repository interface {
	GetStatus(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (domain.TransitionStatus, bool, error)
	SetStatus(ctx context.Context, userID uuid.UUID, t domain.TransitionType, status domain.TransitionStatusValue) error
	GetPagingProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (int, error)
	SetPagingProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType, page int) error
	GetIntegrityProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (int, error)
	SetIntegrityProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType, page int) error
	Remove(ctx context.Context, userID uuid.UUID, t domain.TransitionType) error
}
