package domain

import "github.com/google/uuid"

// TransitionType names which record class a transition migrates.
type TransitionType string

const (
	TransitionItems     TransitionType = "Items"
	TransitionRevisions TransitionType = "Revisions"
)

// TransitionStatusValue is the lifecycle state of one (user, type) transition.
// The absence of a TransitionStatus row (never started) is represented by the
// repository's found=false return, not by a value of this type.
type TransitionStatusValue string

const (
	StatusInProgress TransitionStatusValue = "InProgress"
	StatusVerified   TransitionStatusValue = "Verified"
	StatusFailed     TransitionStatusValue = "Failed"
)

// DefaultPagingProgress and DefaultIntegrityProgress are the starting page
// index for a transition that has never recorded progress.
const (
	DefaultPagingProgress    = 1
	DefaultIntegrityProgress = 1
)

// TransitionStatus is the durable (userId, transitionType) -> progress record
// that makes migration and verification resumable.
type TransitionStatus struct {
	UserID            uuid.UUID
	Type              TransitionType
	Status            TransitionStatusValue
	PagingProgress    int
	IntegrityProgress int
}
