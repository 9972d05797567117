package transition

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/common"
	"github.com/syncd-project/syncd/internal/domain"
	"github.com/syncd-project/syncd/internal/logging"
	"github.com/syncd-project/syncd/internal/server/repositories/revisions"
	"github.com/syncd-project/syncd/internal/server/repositories/transitionstatus"
)

// Verifier compares record counts and per-record identity between the
// primary and secondary revision stores after a migration.
type Verifier struct {
	primary   revisions.Repository
	secondary revisions.Repository
	statuses  transitionstatus.Repository
	pageSize  int
	log       logging.Logger
}

// NewVerifier constructs a Verifier. pageSize must match the page size the
// Migrator used so integrityProgress and pagingProgress cursors line up.
func NewVerifier(primary, secondary revisions.Repository, statuses transitionstatus.Repository, pageSize int, log logging.Logger) *Verifier {
	return &Verifier{primary: primary, secondary: secondary, statuses: statuses, pageSize: pageSize, log: log}
}

// Verify implements the integrity check of spec §4.3: primary must hold at
// least as many revisions as secondary, and every secondary revision must
// either be superseded by a newer primary copy or be identical to it.
func (v *Verifier) Verify(ctx context.Context, userID uuid.UUID, t domain.TransitionType) error {
	primaryCount, err := v.primary.CountByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("counting primary revisions for user %s: %w", userID, err)
	}
	secondaryCount, err := v.secondary.CountByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("counting secondary revisions for user %s: %w", userID, err)
	}
	if primaryCount < secondaryCount {
		return fmt.Errorf("%w: primary has fewer revisions than secondary for user %s (primary=%d secondary=%d)",
			common.ErrIntegrityMismatch, userID, primaryCount, secondaryCount)
	}

	startPage, err := v.statuses.GetIntegrityProgress(ctx, userID, t)
	if err != nil {
		return fmt.Errorf("reading integrity progress for user %s: %w", userID, err)
	}

	totalPages := ceilDiv(primaryCount, v.pageSize)

	for page := startPage; page <= totalPages; page++ {
		if err := v.statuses.SetIntegrityProgress(ctx, userID, t, page); err != nil {
			return fmt.Errorf("persisting integrity progress for user %s: %w", userID, err)
		}

		secondaryPage, err := v.secondary.FindByUserID(ctx, revisions.Page{
			UserID: userID,
			Offset: (page - 1) * v.pageSize,
			Limit:  v.pageSize,
		})
		if err != nil {
			return fmt.Errorf("fetching secondary page %d for user %s: %w", page, userID, err)
		}

		for _, secondaryRev := range secondaryPage {
			primaryRev, found, err := v.primary.FindOneByUUID(ctx, secondaryRev.ID, userID)
			if err != nil {
				return fmt.Errorf("looking up revision %s in primary: %w", secondaryRev.ID, err)
			}
			if !found {
				return fmt.Errorf("%w: revision %s not found in primary database", common.ErrIntegrityMismatch, secondaryRev.ID)
			}
			if primaryRev.UpdatedAt > secondaryRev.UpdatedAt {
				continue
			}
			if !primaryRev.Identical(secondaryRev) {
				primaryJSON, _ := json.Marshal(primaryRev)
				secondaryJSON, _ := json.Marshal(secondaryRev)
				return fmt.Errorf("%w: revision %s differs between stores, primary=%s secondary=%s",
					common.ErrIntegrityMismatch, secondaryRev.ID, primaryJSON, secondaryJSON)
			}
		}
	}

	return nil
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
