package domain

import "github.com/google/uuid"

// TransitionRequestedEvent is published by the Scheduler Driver when it
// decides a (user, type) transition should run.
type TransitionRequestedEvent struct {
	UserID    uuid.UUID      `json:"userId"`
	Type      TransitionType `json:"type"`
	Timestamp int64          `json:"timestamp"`
}

// TransitionStatusUpdatedEvent is published by the Migrator at each lifecycle
// transition: InProgress, the InProgress keep-alives, Verified, or Failed.
type TransitionStatusUpdatedEvent struct {
	UserID               uuid.UUID             `json:"userId"`
	Status               TransitionStatusValue `json:"status"`
	TransitionType       TransitionType        `json:"transitionType"`
	TransitionTimestamp  int64                 `json:"transitionTimestamp"`
}

// ItemRevisionCreationRequested is published after an item is persisted by
// the Sync Item Updater, regardless of whether the hash named a duplicate.
type ItemRevisionCreationRequested struct {
	ItemID uuid.UUID `json:"itemId"`
	UserID uuid.UUID `json:"userId"`
}

// DuplicateItemSynced is published in addition to ItemRevisionCreationRequested
// whenever the incoming hash carried a duplicate_of reference.
type DuplicateItemSynced struct {
	ItemID      uuid.UUID `json:"itemId"`
	DuplicateOfID uuid.UUID `json:"duplicateOfId"`
	UserID      uuid.UUID `json:"userId"`
}
