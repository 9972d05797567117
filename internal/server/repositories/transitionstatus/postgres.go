package transitionstatus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/dbx"
	"github.com/syncd-project/syncd/internal/domain"
)

// PostgresRepository is the primary-store transition status repository.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a PostgresRepository bound to db.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetStatus(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (domain.TransitionStatus, bool, error) {
	query :=
		`SELECT status, paging_progress, integrity_progress FROM transition_status
		 WHERE user_id = $1 AND transition_type = $2
		 `

	var status string
	var paging, integrity int
	err := r.db.QueryRowContext(ctx, query, userID, t).Scan(&status, &paging, &integrity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TransitionStatus{}, false, nil
		}
		return domain.TransitionStatus{}, false, fmt.Errorf("db error: %w", err)
	}

	return domain.TransitionStatus{
		UserID:            userID,
		Type:              t,
		Status:            domain.TransitionStatusValue(status),
		PagingProgress:    paging,
		IntegrityProgress: integrity,
	}, true, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, userID uuid.UUID, t domain.TransitionType, status domain.TransitionStatusValue) error {
	query :=
		`INSERT INTO transition_status (user_id, transition_type, status, paging_progress, integrity_progress)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, transition_type) DO UPDATE SET status = EXCLUDED.status
		 `

	_, err := r.db.ExecContext(ctx, query, userID, t, status,
		domain.DefaultPagingProgress, domain.DefaultIntegrityProgress)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetPagingProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (int, error) {
	query := `SELECT paging_progress FROM transition_status WHERE user_id = $1 AND transition_type = $2`

	var p int
	err := r.db.QueryRowContext(ctx, query, userID, t).Scan(&p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultPagingProgress, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) SetPagingProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType, page int) error {
	query :=
		`INSERT INTO transition_status (user_id, transition_type, status, paging_progress, integrity_progress)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, transition_type) DO UPDATE SET paging_progress = EXCLUDED.paging_progress
		 `

	_, err := r.db.ExecContext(ctx, query, userID, t, domain.StatusInProgress, page, domain.DefaultIntegrityProgress)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetIntegrityProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (int, error) {
	query := `SELECT integrity_progress FROM transition_status WHERE user_id = $1 AND transition_type = $2`

	var p int
	err := r.db.QueryRowContext(ctx, query, userID, t).Scan(&p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultIntegrityProgress, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) SetIntegrityProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType, page int) error {
	query :=
		`INSERT INTO transition_status (user_id, transition_type, status, paging_progress, integrity_progress)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, transition_type) DO UPDATE SET integrity_progress = EXCLUDED.integrity_progress
		 `

	_, err := r.db.ExecContext(ctx, query, userID, t, domain.StatusInProgress, domain.DefaultPagingProgress, page)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Remove deletes the status row, atomically clearing status and both
// progress counters so the next migration attempt starts fresh.
func (r *PostgresRepository) Remove(ctx context.Context, userID uuid.UUID, t domain.TransitionType) error {
	query := `DELETE FROM transition_status WHERE user_id = $1 AND transition_type = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, t); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
