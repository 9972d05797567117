package itemsync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/clock"
	"github.com/syncd-project/syncd/internal/domain"
	"github.com/syncd-project/syncd/internal/eventbus"
	"github.com/syncd-project/syncd/internal/result"
	"github.com/syncd-project/syncd/internal/server/repositories/items"
)

// Updater applies an incoming ItemHash onto an existing Item, persists the
// result, and publishes the sync lifecycle events.
type Updater struct {
	items                     items.Repository
	publisher                 eventbus.Publisher
	itemRevisionCreationTopic string
	duplicateItemSyncedTopic  string
}

// NewUpdater constructs an Updater.
func NewUpdater(itemsRepo items.Repository, publisher eventbus.Publisher, itemRevisionCreationTopic, duplicateItemSyncedTopic string) *Updater {
	return &Updater{
		items:                     itemsRepo,
		publisher:                 publisher,
		itemRevisionCreationTopic: itemRevisionCreationTopic,
		duplicateItemSyncedTopic:  duplicateItemSyncedTopic,
	}
}

// Apply validates hash, applies it onto existingItem, persists the result,
// and publishes the resulting events. The first validation failure
// short-circuits with no store writes and no events published.
func (u *Updater) Apply(ctx context.Context, existingItem domain.Item, hash domain.ItemHash, sessionID, performingUserID string) result.Result[domain.Item] {
	if err := validate(hash, sessionID, performingUserID); err != nil {
		return result.Fail[domain.Item](err.Error())
	}

	performingUser, err := uuid.Parse(performingUserID)
	if err != nil {
		return result.Fail[domain.Item](err.Error())
	}

	updated := existingItem
	updated.ItemID = hash.ItemID
	updated.ContentType = hash.ContentType
	updated.Content = hash.Content
	updated.EncItemKey = hash.EncItemKey
	updated.AuthHash = hash.AuthHash
	updated.ItemsKeyID = hash.ItemsKeyID

	if hash.Deleted {
		updated.Deleted = true
		updated.Content = nil
		updated.EncItemKey = nil
		updated.AuthHash = nil
		updated.ItemsKeyID = nil
		updated.DuplicateOf = nil
	} else {
		updated.Deleted = false
		updated.DuplicateOf = hash.DuplicateOf
	}

	timestamps, err := resolveTimestamps(hash)
	if err != nil {
		return result.Fail[domain.Item](err.Error())
	}
	updated.Timestamps = timestamps
	updated.Dates = timestamps.ToDates()

	updated.SharedVaultAssociation = resolveSharedVaultAssociation(existingItem, hash, performingUser, timestamps)
	updated.KeySystemAssociation = resolveKeySystemAssociation(existingItem, hash, timestamps)

	if err := u.items.Save(ctx, updated); err != nil {
		return result.Fail[domain.Item](fmt.Sprintf("saving item: %s", err))
	}

	u.publishEvents(ctx, updated, hash)

	return result.Ok(updated)
}

// resolveTimestamps implements the microsecond-preferred, date-string
// fallback rule. A hash carrying updated_at_timestamp without
// created_at_timestamp falls back to the string pair entirely rather than
// mixing the two forms — an asymmetry preserved from the source behavior.
func resolveTimestamps(hash domain.ItemHash) (domain.Timestamps, error) {
	if hash.CreatedAtTimestamp != nil && hash.UpdatedAtTimestamp != nil {
		ts, ok := domain.NewTimestamps(*hash.CreatedAtTimestamp, *hash.UpdatedAtTimestamp)
		if !ok {
			return domain.Timestamps{}, fmt.Errorf("updatedAt precedes createdAt")
		}
		return ts, nil
	}

	if hash.CreatedAtDate == nil || hash.UpdatedAtDate == nil {
		return domain.Timestamps{}, fmt.Errorf("no creation time present in either microsecond or date form")
	}

	createdAt, err := clock.ParseDate(*hash.CreatedAtDate)
	if err != nil {
		return domain.Timestamps{}, fmt.Errorf("parsing created_at: %w", err)
	}
	updatedAt, err := clock.ParseDate(*hash.UpdatedAtDate)
	if err != nil {
		return domain.Timestamps{}, fmt.Errorf("parsing updated_at: %w", err)
	}

	ts, ok := domain.NewTimestamps(createdAt, updatedAt)
	if !ok {
		return domain.Timestamps{}, fmt.Errorf("updatedAt precedes createdAt")
	}
	return ts, nil
}

// resolveSharedVaultAssociation creates a fresh association only when the
// hash names a vault and it differs from the item's current association,
// preserving identity otherwise.
func resolveSharedVaultAssociation(existing domain.Item, hash domain.ItemHash, performingUser uuid.UUID, ts domain.Timestamps) *domain.SharedVaultAssociation {
	if hash.SharedVaultID == nil {
		return existing.SharedVaultAssociation
	}
	if existing.SharedVaultAssociation != nil && existing.SharedVaultAssociation.SharedVaultID == *hash.SharedVaultID {
		return existing.SharedVaultAssociation
	}
	return &domain.SharedVaultAssociation{
		ItemID:        hash.ItemID,
		SharedVaultID: *hash.SharedVaultID,
		LastEditedBy:  performingUser,
		Timestamps:    ts,
	}
}

// resolveKeySystemAssociation is the symmetric rule for key-system
// associations.
func resolveKeySystemAssociation(existing domain.Item, hash domain.ItemHash, ts domain.Timestamps) *domain.KeySystemAssociation {
	if hash.KeySystemIdentifier == nil {
		return existing.KeySystemAssociation
	}
	if existing.KeySystemAssociation != nil && existing.KeySystemAssociation.KeySystemID == *hash.KeySystemIdentifier {
		return existing.KeySystemAssociation
	}
	return &domain.KeySystemAssociation{
		ItemID:     hash.ItemID,
		KeySystemID: *hash.KeySystemIdentifier,
		Timestamps: ts,
	}
}
