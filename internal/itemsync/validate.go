// Package itemsync implements the Sync Item Updater: validating an incoming
// ItemHash against the known content-type vocabulary and identifier
// formats, applying it onto an existing Item, and publishing the resulting
// lifecycle events.
package itemsync

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/domain"
)

// validate runs the six-step ordered validation pipeline, short-circuiting
// on the first failure so later steps never see a malformed input.
func validate(hash domain.ItemHash, sessionID, performingUserID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("invalid sessionId %q", sessionID)
	}
	if _, err := uuid.Parse(performingUserID); err != nil {
		return fmt.Errorf("invalid performingUserId %q", performingUserID)
	}

	if !hash.ContentType.IsKnown() {
		return fmt.Errorf("unknown content type %q", hash.ContentType)
	}

	if hash.DuplicateOf != nil && *hash.DuplicateOf == uuid.Nil {
		return fmt.Errorf("invalid duplicate_of identifier")
	}

	if !hasCreationTime(hash) {
		return fmt.Errorf("no creation time present in either microsecond or date form")
	}

	if hash.SharedVaultID != nil && *hash.SharedVaultID == uuid.Nil {
		return fmt.Errorf("invalid shared_vault_uuid")
	}

	if hash.KeySystemIdentifier != nil && *hash.KeySystemIdentifier == uuid.Nil {
		return fmt.Errorf("invalid key_system_identifier")
	}

	return nil
}

// hasCreationTime reports whether hash carries a creation time in either
// the microsecond or the date-string accepted forms.
func hasCreationTime(hash domain.ItemHash) bool {
	return hash.CreatedAtTimestamp != nil || hash.CreatedAtDate != nil
}
