package domain

import "github.com/google/uuid"

// Revision is an immutable historical record of an item's state. Two
// revisions are identical iff all payload fields and both timestamps match.
type Revision struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	ItemID        uuid.UUID
	Content       string
	ContentType   string
	EncItemKey    string
	AuthHash      string
	ItemsKeyID    string
	CreatedAt     int64 // UTC microseconds
	UpdatedAt     int64 // UTC microseconds
}

// Identical reports whether r and other carry the same payload and the same
// two timestamps, per the identity rule in the data model.
func (r Revision) Identical(other Revision) bool {
	return r.ID == other.ID &&
		r.UserID == other.UserID &&
		r.ItemID == other.ItemID &&
		r.Content == other.Content &&
		r.ContentType == other.ContentType &&
		r.EncItemKey == other.EncItemKey &&
		r.AuthHash == other.AuthHash &&
		r.ItemsKeyID == other.ItemsKeyID &&
		r.CreatedAt == other.CreatedAt &&
		r.UpdatedAt == other.UpdatedAt
}
