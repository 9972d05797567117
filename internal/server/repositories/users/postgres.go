package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/dbx"
	"github.com/syncd-project/syncd/internal/domain"
)

// PostgresRepository is the primary-store user repository.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a PostgresRepository bound to db.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountAllCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	query := `SELECT count(*) FROM users WHERE created_at BETWEEN $1 AND $2`

	var n int
	if err := r.db.QueryRowContext(ctx, query, start, end).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) FindAllCreatedBetween(ctx context.Context, w Window) ([]domain.User, error) {
	query :=
		`SELECT id, roles, created_at, updated_at FROM users
		 WHERE created_at BETWEEN $1 AND $2
		 ORDER BY created_at, id
		 OFFSET $3 LIMIT $4
		 `

	rows, err := r.db.QueryContext(ctx, query, w.Start, w.End, w.Offset, w.Limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var (
			id         uuid.UUID
			rolesCSV   string
			createdAt  time.Time
			updatedAt  time.Time
		)
		if err := rows.Scan(&id, &rolesCSV, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		var roles []string
		if rolesCSV != "" {
			roles = strings.Split(rolesCSV, ",")
		}

		out = append(out, domain.User{ID: id, Roles: roles, CreatedAt: createdAt, UpdatedAt: updatedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

var _ Repository = (*PostgresRepository)(nil)
