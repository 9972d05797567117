package itemsync

import (
	"context"

	"github.com/syncd-project/syncd/internal/domain"
)

// publishEvents emits ItemRevisionCreationRequested unconditionally, and
// DuplicateItemSynced only when the applied hash named a duplicate-of item.
// Publish failures are swallowed here: persistence already succeeded, and
// event delivery is at-least-once from a durable bus whose outage is not
// this use case's concern to surface to the caller.
func (u *Updater) publishEvents(ctx context.Context, item domain.Item, hash domain.ItemHash) {
	_ = u.publisher.Publish(ctx, u.itemRevisionCreationTopic, domain.ItemRevisionCreationRequested{
		ItemID: item.ItemID,
		UserID: item.UserID,
	})

	if hash.DuplicateOf != nil {
		_ = u.publisher.Publish(ctx, u.duplicateItemSyncedTopic, domain.DuplicateItemSynced{
			ItemID:        item.ItemID,
			DuplicateOfID: *hash.DuplicateOf,
			UserID:        item.UserID,
		})
	}
}
