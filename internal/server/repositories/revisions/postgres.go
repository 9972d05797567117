package revisions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/dbx"
	"github.com/syncd-project/syncd/internal/domain"
)

// PostgresRepository is the primary-store revision repository.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a PostgresRepository bound to db.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT count(*) FROM revisions WHERE user_id = $1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, page Page) ([]domain.Revision, error) {
	query :=
		`SELECT id, user_id, item_id, content, content_type, enc_item_key, auth_hash, items_key_id, created_at, updated_at
		 FROM revisions
		 WHERE user_id = $1
		 ORDER BY id
		 OFFSET $2 LIMIT $3
		 `

	rows, err := r.db.QueryContext(ctx, query, page.UserID, page.Offset, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []domain.Revision
	for rows.Next() {
		var rev domain.Revision
		if err := rows.Scan(&rev.ID, &rev.UserID, &rev.ItemID, &rev.Content, &rev.ContentType,
			&rev.EncItemKey, &rev.AuthHash, &rev.ItemsKeyID, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) FindOneByUUID(ctx context.Context, revisionID, userID uuid.UUID) (domain.Revision, bool, error) {
	query :=
		`SELECT id, user_id, item_id, content, content_type, enc_item_key, auth_hash, items_key_id, created_at, updated_at
		 FROM revisions
		 WHERE id = $1 AND user_id = $2
		 `

	var rev domain.Revision
	err := r.db.QueryRowContext(ctx, query, revisionID, userID).Scan(&rev.ID, &rev.UserID, &rev.ItemID,
		&rev.Content, &rev.ContentType, &rev.EncItemKey, &rev.AuthHash, &rev.ItemsKeyID, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Revision{}, false, nil
		}
		return domain.Revision{}, false, fmt.Errorf("db error: %w", err)
	}
	return rev, true, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, rev domain.Revision) (bool, error) {
	query :=
		`INSERT INTO revisions (id, user_id, item_id, content, content_type, enc_item_key, auth_hash, items_key_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, rev.ID, rev.UserID, rev.ItemID, rev.Content, rev.ContentType,
		rev.EncItemKey, rev.AuthHash, rev.ItemsKeyID, rev.CreatedAt, rev.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) RemoveOneByUUID(ctx context.Context, revisionID, userID uuid.UUID) error {
	query := `DELETE FROM revisions WHERE id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, revisionID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM revisions WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
