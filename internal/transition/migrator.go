package transition

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/clock"
	"github.com/syncd-project/syncd/internal/common"
	"github.com/syncd-project/syncd/internal/domain"
	"github.com/syncd-project/syncd/internal/eventbus"
	"github.com/syncd-project/syncd/internal/logging"
	"github.com/syncd-project/syncd/internal/server/repositories/revisions"
	"github.com/syncd-project/syncd/internal/server/repositories/transitionstatus"
)

// sleepFn is a seam over the cancellable replication-lag waits so tests do
// not actually block for two seconds.
var sleepFn = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunResult is the outcome of one Migrator.Run attempt.
type RunResult struct {
	Status        domain.TransitionStatusValue
	ElapsedMicros int64
}

// Migrator executes the staged migration state machine for one user and
// transition type: NotStarted -> InProgress -> (Verified | Failed).
type Migrator struct {
	primary             revisions.Repository
	secondary           revisions.Repository
	statuses            transitionstatus.Repository
	publisher           eventbus.Publisher
	verifier            *Verifier
	statusTopicARN      string
	pageSize            int
	replicationLagSleep time.Duration
	log                 logging.Logger
}

// NewMigrator constructs a Migrator. secondary and statuses are required;
// their absence is a configuration error, not a user-level failure.
func NewMigrator(
	primary, secondary revisions.Repository,
	statuses transitionstatus.Repository,
	publisher eventbus.Publisher,
	verifier *Verifier,
	statusTopicARN string,
	pageSize int,
	replicationLagSleep time.Duration,
	log logging.Logger,
) *Migrator {
	return &Migrator{
		primary:             primary,
		secondary:           secondary,
		statuses:            statuses,
		publisher:           publisher,
		verifier:            verifier,
		statusTopicARN:      statusTopicARN,
		pageSize:            pageSize,
		replicationLagSleep: replicationLagSleep,
		log:                 log,
	}
}

// Run executes one migration attempt for (userID, t).
func (m *Migrator) Run(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (RunResult, error) {
	if m.secondary == nil || m.statuses == nil {
		return RunResult{}, fmt.Errorf("migrator for user %s: %w", userID, common.ErrConfiguration)
	}

	secondaryCount, err := m.secondary.CountByUserID(ctx, userID)
	if err != nil {
		return RunResult{}, fmt.Errorf("counting secondary revisions for user %s: %w", userID, err)
	}

	if secondaryCount == 0 {
		m.publishStatus(ctx, userID, t, domain.StatusVerified)
		return RunResult{Status: domain.StatusVerified}, nil
	}

	m.publishStatus(ctx, userID, t, domain.StatusInProgress)
	startedAt := clock.NowMicros()

	if err := m.page(ctx, userID, t, secondaryCount); err != nil {
		m.publishStatus(ctx, userID, t, domain.StatusFailed)
		return RunResult{Status: domain.StatusFailed}, fmt.Errorf("migrating user %s: %w", userID, err)
	}

	if err := sleepFn(ctx, m.replicationLagSleep); err != nil {
		return RunResult{Status: domain.StatusInProgress}, err
	}

	if err := m.verifier.Verify(ctx, userID, t); err != nil {
		if resetErr := m.resetProgress(ctx, userID, t); resetErr != nil {
			m.log.Error(ctx, "resetting progress after integrity failure", "user", userID, "error", resetErr)
		}
		m.publishStatus(ctx, userID, t, domain.StatusFailed)
		return RunResult{Status: domain.StatusFailed}, err
	}

	// Cleanup failure is marked Failed even though integrity has already
	// passed; the revisions are valid in primary at this point, so this is
	// a known false negative preserved from the source behavior.
	if err := m.secondary.RemoveByUserID(ctx, userID); err != nil {
		m.log.Error(ctx, "cleaning up secondary revisions", "user", userID, "error", err)
		m.publishStatus(ctx, userID, t, domain.StatusFailed)
		return RunResult{Status: domain.StatusFailed}, fmt.Errorf("cleaning up secondary store for user %s: %w", userID, err)
	}

	elapsed := clock.NowMicros() - startedAt
	m.publishStatus(ctx, userID, t, domain.StatusVerified)
	m.log.Info(ctx, "migration verified", "user", userID, "type", t, "elapsedMicros", elapsed)

	return RunResult{Status: domain.StatusVerified, ElapsedMicros: elapsed}, nil
}

// page runs the paging-migration loop of spec §4.2 step 3.
func (m *Migrator) page(ctx context.Context, userID uuid.UUID, t domain.TransitionType, secondaryCount int) error {
	startPage, err := m.statuses.GetPagingProgress(ctx, userID, t)
	if err != nil {
		return fmt.Errorf("reading paging progress: %w", err)
	}

	totalPages := ceilDiv(secondaryCount, m.pageSize)
	keepAliveEvery := totalPages / 10
	if keepAliveEvery < 1 {
		keepAliveEvery = 1
	}

	for page := startPage; page <= totalPages; page++ {
		if (page-startPage)%keepAliveEvery == 0 {
			m.publishStatus(ctx, userID, t, domain.StatusInProgress)
		}

		if err := m.statuses.SetPagingProgress(ctx, userID, t, page); err != nil {
			return fmt.Errorf("persisting paging progress at page %d: %w", page, err)
		}

		secondaryPage, err := m.secondary.FindByUserID(ctx, revisions.Page{
			UserID: userID,
			Offset: (page - 1) * m.pageSize,
			Limit:  m.pageSize,
		})
		if err != nil {
			return fmt.Errorf("fetching secondary page %d: %w", page, err)
		}

		for _, secondaryRev := range secondaryPage {
			if err := m.migrateOne(ctx, userID, secondaryRev); err != nil {
				m.log.Error(ctx, "skipping revision due to error", "user", userID, "revision", secondaryRev.ID, "error", err)
			}
		}
	}

	return nil
}

// migrateOne applies the four-way conflict branch of spec §4.2 to a single
// revision. Per-revision errors are returned to the caller for logging, not
// treated as fatal to the migration.
func (m *Migrator) migrateOne(ctx context.Context, userID uuid.UUID, secondaryRev domain.Revision) error {
	primaryRev, found, err := m.primary.FindOneByUUID(ctx, secondaryRev.ID, userID)
	if err != nil {
		return fmt.Errorf("looking up revision in primary: %w", err)
	}

	switch {
	case !found:
		_, err := m.primary.Insert(ctx, secondaryRev)
		return err

	case primaryRev.UpdatedAt > secondaryRev.UpdatedAt:
		return nil

	case primaryRev.Identical(secondaryRev):
		return nil

	default:
		if err := m.primary.RemoveOneByUUID(ctx, secondaryRev.ID, userID); err != nil {
			return fmt.Errorf("removing conflicting primary copy: %w", err)
		}
		if err := sleepFn(ctx, m.replicationLagSleep); err != nil {
			return err
		}
		_, err := m.primary.Insert(ctx, secondaryRev)
		return err
	}
}

// resetProgress sets both progress counters back to 1 before the Failed
// status is published, so a crash between the two writes leaves progress at
// 1 rather than mid-migration values.
func (m *Migrator) resetProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType) error {
	if err := m.statuses.SetPagingProgress(ctx, userID, t, domain.DefaultPagingProgress); err != nil {
		return err
	}
	return m.statuses.SetIntegrityProgress(ctx, userID, t, domain.DefaultIntegrityProgress)
}

func (m *Migrator) publishStatus(ctx context.Context, userID uuid.UUID, t domain.TransitionType, status domain.TransitionStatusValue) {
	event := domain.TransitionStatusUpdatedEvent{
		UserID:              userID,
		Status:              status,
		TransitionType:      t,
		TransitionTimestamp: clock.NowMicros(),
	}
	if err := m.publisher.Publish(ctx, m.statusTopicARN, event); err != nil {
		m.log.Warn(ctx, "publishing transition status event", "user", userID, "status", status, "error", err)
	}
}
