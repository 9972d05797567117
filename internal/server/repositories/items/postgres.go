package items

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/syncd-project/syncd/internal/dbx"
	"github.com/syncd-project/syncd/internal/domain"
)

// PostgresRepository is the primary-store item repository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository constructs a PostgresRepository bound to db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the item and its optional associations in one transaction, so
// a partial write never leaves an item pointing at a half-written
// association.
func (r *PostgresRepository) Save(ctx context.Context, item domain.Item) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := saveItem(ctx, tx, item); err != nil {
			return err
		}
		if item.SharedVaultAssociation != nil {
			if err := saveSharedVaultAssociation(ctx, tx, *item.SharedVaultAssociation); err != nil {
				return err
			}
		}
		if item.KeySystemAssociation != nil {
			if err := saveKeySystemAssociation(ctx, tx, *item.KeySystemAssociation); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveItem(ctx context.Context, tx dbx.DBTX, item domain.Item) error {
	query :=
		`INSERT INTO items (item_id, user_id, session_id, content, content_type, enc_item_key, auth_hash,
		                     items_key_id, duplicate_of, deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (item_id) DO UPDATE SET
		   session_id = EXCLUDED.session_id,
		   content = EXCLUDED.content,
		   content_type = EXCLUDED.content_type,
		   enc_item_key = EXCLUDED.enc_item_key,
		   auth_hash = EXCLUDED.auth_hash,
		   items_key_id = EXCLUDED.items_key_id,
		   duplicate_of = EXCLUDED.duplicate_of,
		   deleted = EXCLUDED.deleted,
		   updated_at = EXCLUDED.updated_at
		 `

	_, err := tx.ExecContext(ctx, query, item.ItemID, item.UserID, item.SessionID, item.Content, item.ContentType,
		item.EncItemKey, item.AuthHash, item.ItemsKeyID, item.DuplicateOf, item.Deleted,
		item.Timestamps.CreatedAt, item.Timestamps.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func saveSharedVaultAssociation(ctx context.Context, tx dbx.DBTX, a domain.SharedVaultAssociation) error {
	query :=
		`INSERT INTO shared_vault_associations (item_id, shared_vault_id, last_edited_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (item_id) DO UPDATE SET
		   shared_vault_id = EXCLUDED.shared_vault_id,
		   last_edited_by = EXCLUDED.last_edited_by,
		   updated_at = EXCLUDED.updated_at
		 `

	_, err := tx.ExecContext(ctx, query, a.ItemID, a.SharedVaultID, a.LastEditedBy, a.Timestamps.CreatedAt, a.Timestamps.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func saveKeySystemAssociation(ctx context.Context, tx dbx.DBTX, a domain.KeySystemAssociation) error {
	query :=
		`INSERT INTO key_system_associations (item_id, key_system_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (item_id) DO UPDATE SET
		   key_system_id = EXCLUDED.key_system_id,
		   updated_at = EXCLUDED.updated_at
		 `

	_, err := tx.ExecContext(ctx, query, a.ItemID, a.KeySystemID, a.Timestamps.CreatedAt, a.Timestamps.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
