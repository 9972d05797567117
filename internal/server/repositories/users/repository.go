// Package users defines the user repository contract the Scheduler Driver
// reads from, plus a PostgreSQL implementation.
package users

import (
	"context"
	"time"

	"github.com/syncd-project/syncd/internal/domain"
)

// Window selects one page of users created within [Start, End].
type Window struct {
	Start  time.Time
	End    time.Time
	Offset int
	Limit  int
}

// Repository is the data-store contract the Scheduler Driver depends on.
// The core only reads; user lifecycle is managed externally.
type Repository interface {
	CountAllCreatedBetween(ctx context.Context, start, end time.Time) (int, error)
	FindAllCreatedBetween(ctx context.Context, w Window) ([]domain.User, error)
}
