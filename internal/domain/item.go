package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContentType is drawn from a fixed, known vocabulary of item kinds.
type ContentType string

// KnownContentTypes is the fixed vocabulary validated against during item
// sync. Real deployments may carry more entries; this core only needs to
// know the set exists and be able to check membership.
var KnownContentTypes = map[ContentType]bool{
	"Note":               true,
	"Tag":                true,
	"SN|SmartTag":        true,
	"SN|FileSafe|File":   true,
	"SN|UserPreferences": true,
	"SN|ExtensionRepo":   true,
	"SN|Component":       true,
	"SN|Theme":           true,
	"SN|ItemsKey":        true,
}

// IsKnown reports whether ct is a member of the fixed content-type vocabulary.
func (ct ContentType) IsKnown() bool {
	return KnownContentTypes[ct]
}

// Dates is the human-time createdAt/updatedAt pair, derived from Timestamps.
type Dates struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Timestamps is the UTC-microsecond createdAt/updatedAt pair persisted
// alongside an Item or Revision.
type Timestamps struct {
	CreatedAt int64
	UpdatedAt int64
}

// NewTimestamps validates and constructs a Timestamps pair, enforcing
// invariant 2 (updatedAt >= createdAt).
func NewTimestamps(createdAt, updatedAt int64) (Timestamps, bool) {
	if updatedAt < createdAt {
		return Timestamps{}, false
	}
	return Timestamps{CreatedAt: createdAt, UpdatedAt: updatedAt}, true
}

// ToDates converts a Timestamps pair into its human-time Dates equivalent.
func (ts Timestamps) ToDates() Dates {
	return Dates{
		CreatedAt: time.UnixMicro(ts.CreatedAt).UTC(),
		UpdatedAt: time.UnixMicro(ts.UpdatedAt).UTC(),
	}
}

// Item is the latest server-held state for a note-like entity.
type Item struct {
	ItemID      uuid.UUID
	UserID      uuid.UUID
	SessionID   *uuid.UUID
	Content     *string
	ContentType ContentType
	EncItemKey  *string
	AuthHash    *string
	ItemsKeyID  *string
	DuplicateOf *uuid.UUID
	Deleted     bool
	Dates       Dates
	Timestamps  Timestamps

	SharedVaultAssociation *SharedVaultAssociation
	KeySystemAssociation   *KeySystemAssociation
}

// ItemHash is the client-submitted desired mutation for one item. At least
// one of the two created_at forms must be present; see spec §3.
type ItemHash struct {
	ItemID      uuid.UUID
	Content     *string
	ContentType ContentType
	EncItemKey  *string
	AuthHash    *string
	ItemsKeyID  *string
	DuplicateOf *uuid.UUID
	Deleted     bool

	SharedVaultID       *uuid.UUID
	KeySystemIdentifier *uuid.UUID

	CreatedAtTimestamp *int64
	UpdatedAtTimestamp *int64
	CreatedAtDate      *string
	UpdatedAtDate      *string
}

// SharedVaultAssociation links an item to a shared vault. It is re-created
// only when the hash names a different vault than the current association.
type SharedVaultAssociation struct {
	ItemID        uuid.UUID
	SharedVaultID uuid.UUID
	LastEditedBy  uuid.UUID
	Timestamps    Timestamps
}

// KeySystemAssociation links an item to a key system, with the same
// lifecycle rule as SharedVaultAssociation.
type KeySystemAssociation struct {
	ItemID     uuid.UUID
	KeySystemID uuid.UUID
	Timestamps  Timestamps
}
