package transition

import (
	"context"
	"fmt"
	"time"

	"github.com/syncd-project/syncd/internal/clock"
	"github.com/syncd-project/syncd/internal/common"
	"github.com/syncd-project/syncd/internal/domain"
	"github.com/syncd-project/syncd/internal/eventbus"
	"github.com/syncd-project/syncd/internal/logging"
	"github.com/syncd-project/syncd/internal/server/repositories/transitionstatus"
	"github.com/syncd-project/syncd/internal/server/repositories/users"
)

// transitionTypes is the fixed set of transitions the Scheduler Driver
// evaluates for every user.
var transitionTypes = []domain.TransitionType{domain.TransitionRevisions, domain.TransitionItems}

// ScanResult summarizes one Scheduler Driver pass, for the CLI to log.
type ScanResult struct {
	UsersScanned         int
	TransitionsRequested int
}

// Scheduler is the driver of spec §4.1: it pages through users created in a
// date window and requests a transition for each (user, type) pair whose
// status warrants one.
type Scheduler struct {
	users     users.Repository
	statuses  transitionstatus.Repository
	publisher eventbus.Publisher
	topicARN  string
	pageSize  int
	log       logging.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(
	usersRepo users.Repository,
	statuses transitionstatus.Repository,
	publisher eventbus.Publisher,
	topicARN string,
	log logging.Logger,
) *Scheduler {
	return &Scheduler{
		users:     usersRepo,
		statuses:  statuses,
		publisher: publisher,
		topicARN:  topicARN,
		pageSize:  common.SchedulerPageSize,
		log:       log,
	}
}

// Run scans every user created within [start, end] and requests a transition
// for each (user, type) pair that is due. forceRun additionally re-requests
// transitions that are currently InProgress, for operator-initiated retries.
func (s *Scheduler) Run(ctx context.Context, start, end time.Time, forceRun bool) (ScanResult, error) {
	total, err := s.users.CountAllCreatedBetween(ctx, start, end)
	if err != nil {
		return ScanResult{}, fmt.Errorf("counting users in window: %w", err)
	}

	var result ScanResult
	totalPages := ceilDiv(total, s.pageSize)

	for page := 1; page <= totalPages; page++ {
		batch, err := s.users.FindAllCreatedBetween(ctx, users.Window{
			Start:  start,
			End:    end,
			Offset: (page - 1) * s.pageSize,
			Limit:  s.pageSize,
		})
		if err != nil {
			return result, fmt.Errorf("fetching user page %d: %w", page, err)
		}

		for _, u := range batch {
			result.UsersScanned++
			requested, err := s.evaluateUser(ctx, u, forceRun)
			if err != nil {
				s.log.Error(ctx, "evaluating user for transition", "user", u.ID, "error", err)
				continue
			}
			result.TransitionsRequested += requested
		}
	}

	return result, nil
}

// evaluateUser applies the proceed gate and per-type trigger rule of spec
// §4.1 to a single user, returning the number of transitions requested.
func (s *Scheduler) evaluateUser(ctx context.Context, u domain.User, forceRun bool) (int, error) {
	statuses := make(map[domain.TransitionType]domain.TransitionStatus, len(transitionTypes))
	found := make(map[domain.TransitionType]bool, len(transitionTypes))

	for _, t := range transitionTypes {
		st, ok, err := s.statuses.GetStatus(ctx, u.ID, t)
		if err != nil {
			return 0, fmt.Errorf("reading status for user %s type %s: %w", u.ID, t, err)
		}
		statuses[t] = st
		found[t] = ok
	}

	allVerified := true
	for _, t := range transitionTypes {
		if !found[t] || statuses[t].Status != domain.StatusVerified {
			allVerified = false
			break
		}
	}
	if !u.HasRole(common.TransitionUserRole) && allVerified {
		return 0, nil
	}

	requested := 0
	for _, t := range transitionTypes {
		if !s.shouldTrigger(found[t], statuses[t].Status, forceRun) {
			continue
		}

		if err := s.statuses.Remove(ctx, u.ID, t); err != nil {
			return requested, fmt.Errorf("clearing status for user %s type %s: %w", u.ID, t, err)
		}

		event := domain.TransitionRequestedEvent{
			UserID:    u.ID,
			Type:      t,
			Timestamp: clock.NowMicros(),
		}
		if err := s.publisher.Publish(ctx, s.topicARN, event); err != nil {
			return requested, fmt.Errorf("publishing transition request for user %s type %s: %w", u.ID, t, err)
		}
		requested++
	}

	return requested, nil
}

// shouldTrigger reports whether a (user, type) transition is due: it has
// never started, it previously failed, or it is stuck in progress and a
// forced re-run was requested.
func (s *Scheduler) shouldTrigger(found bool, status domain.TransitionStatusValue, forceRun bool) bool {
	if !found {
		return true
	}
	if status == domain.StatusFailed {
		return true
	}
	if status == domain.StatusInProgress && forceRun {
		return true
	}
	return false
}
