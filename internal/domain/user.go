// Package domain holds the plain data types shared by the transition engine
// and the item sync core: users, revisions, items, item hashes, transition
// status, and the two association types. None of these types carry
// persistence logic; that lives in internal/server/repositories.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the subset of the user record the core reads. Lifecycle is
// external: users are created and updated outside the core.
type User struct {
	ID        uuid.UUID
	Roles     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRole reports whether the user carries the named role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
