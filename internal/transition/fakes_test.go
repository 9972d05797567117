package transition

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/domain"
	"github.com/syncd-project/syncd/internal/server/repositories/revisions"
	"github.com/syncd-project/syncd/internal/server/repositories/users"
)

// fakeRevisions is an in-memory revisions.Repository for a single user.
type fakeRevisions struct {
	mu   sync.Mutex
	revs map[uuid.UUID]domain.Revision
}

func newFakeRevisions(revs ...domain.Revision) *fakeRevisions {
	f := &fakeRevisions{revs: map[uuid.UUID]domain.Revision{}}
	for _, r := range revs {
		f.revs[r.ID] = r
	}
	return f
}

func (f *fakeRevisions) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.revs {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRevisions) FindByUserID(ctx context.Context, p revisions.Page) ([]domain.Revision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []domain.Revision
	for _, r := range f.revs {
		if r.UserID == p.UserID {
			all = append(all, r)
		}
	}
	// deterministic order for test assertions
	sortRevisions(all)

	if p.Offset >= len(all) {
		return nil, nil
	}
	end := p.Offset + p.Limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]domain.Revision, end-p.Offset)
	copy(out, all[p.Offset:end])
	return out, nil
}

func (f *fakeRevisions) FindOneByUUID(ctx context.Context, revisionID, userID uuid.UUID) (domain.Revision, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.revs[revisionID]
	if !ok || r.UserID != userID {
		return domain.Revision{}, false, nil
	}
	return r, true, nil
}

func (f *fakeRevisions) Insert(ctx context.Context, rev domain.Revision) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.revs[rev.ID]; exists {
		return false, nil
	}
	f.revs[rev.ID] = rev
	return true, nil
}

func (f *fakeRevisions) RemoveOneByUUID(ctx context.Context, revisionID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.revs, revisionID)
	return nil
}

func (f *fakeRevisions) RemoveByUserID(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.revs {
		if r.UserID == userID {
			delete(f.revs, id)
		}
	}
	return nil
}

func sortRevisions(rs []domain.Revision) {
	for i := 1; i < len(rs); i++ {
		for j := i; j > 0 && rs[j-1].ID.String() > rs[j].ID.String(); j-- {
			rs[j-1], rs[j] = rs[j], rs[j-1]
		}
	}
}

// fakeStatuses is an in-memory transitionstatus.Repository.
type fakeStatuses struct {
	mu       sync.Mutex
	statuses map[string]domain.TransitionStatus
}

func newFakeStatuses() *fakeStatuses {
	return &fakeStatuses{statuses: map[string]domain.TransitionStatus{}}
}

func statusKey(userID uuid.UUID, t domain.TransitionType) string {
	return fmt.Sprintf("%s:%s", userID, t)
}

func (f *fakeStatuses) GetStatus(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (domain.TransitionStatus, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[statusKey(userID, t)]
	return st, ok, nil
}

func (f *fakeStatuses) SetStatus(ctx context.Context, userID uuid.UUID, t domain.TransitionType, status domain.TransitionStatusValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := statusKey(userID, t)
	st := f.statuses[key]
	st.UserID, st.Type, st.Status = userID, t, status
	f.statuses[key] = st
	return nil
}

func (f *fakeStatuses) GetPagingProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[statusKey(userID, t)]
	if !ok || st.PagingProgress == 0 {
		return domain.DefaultPagingProgress, nil
	}
	return st.PagingProgress, nil
}

func (f *fakeStatuses) SetPagingProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType, page int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := statusKey(userID, t)
	st := f.statuses[key]
	st.UserID, st.Type, st.PagingProgress = userID, t, page
	f.statuses[key] = st
	return nil
}

func (f *fakeStatuses) GetIntegrityProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[statusKey(userID, t)]
	if !ok || st.IntegrityProgress == 0 {
		return domain.DefaultIntegrityProgress, nil
	}
	return st.IntegrityProgress, nil
}

func (f *fakeStatuses) SetIntegrityProgress(ctx context.Context, userID uuid.UUID, t domain.TransitionType, page int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := statusKey(userID, t)
	st := f.statuses[key]
	st.UserID, st.Type, st.IntegrityProgress = userID, t, page
	f.statuses[key] = st
	return nil
}

func (f *fakeStatuses) Remove(ctx context.Context, userID uuid.UUID, t domain.TransitionType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.statuses, statusKey(userID, t))
	return nil
}

// fakePublisher records every event it is asked to publish.
type fakePublisher struct {
	mu       sync.Mutex
	events   []publishedEvent
	failNext bool
}

type publishedEvent struct {
	TopicARN string
	Event    any
}

func (f *fakePublisher) Publish(ctx context.Context, topicARN string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return fmt.Errorf("publish failed")
	}
	f.events = append(f.events, publishedEvent{TopicARN: topicARN, Event: event})
	return nil
}

func (f *fakePublisher) statusesPublished() []domain.TransitionStatusValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TransitionStatusValue
	for _, e := range f.events {
		if ev, ok := e.Event.(domain.TransitionStatusUpdatedEvent); ok {
			out = append(out, ev.Status)
		}
	}
	return out
}

// fakeUsers is an in-memory users.Repository.
type fakeUsers struct {
	all []domain.User
}

func (f *fakeUsers) CountAllCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	n := 0
	for _, u := range f.all {
		if !u.CreatedAt.Before(start) && !u.CreatedAt.After(end) {
			n++
		}
	}
	return n, nil
}

func (f *fakeUsers) FindAllCreatedBetween(ctx context.Context, w users.Window) ([]domain.User, error) {
	var matched []domain.User
	for _, u := range f.all {
		if !u.CreatedAt.Before(w.Start) && !u.CreatedAt.After(w.End) {
			matched = append(matched, u)
		}
	}
	if w.Offset >= len(matched) {
		return nil, nil
	}
	end := w.Offset + w.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[w.Offset:end], nil
}
