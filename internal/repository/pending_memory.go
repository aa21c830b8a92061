package repository

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// MemoryPendingRepo keeps held reservations in process memory, one per
// session.  Entries past their TTL are treated as absent and swept lazily.
type MemoryPendingRepo struct {
	mu      sync.Mutex
	entries map[string]pendingEntry
	now     func() time.Time
}

type pendingEntry struct {
	res       model.Reservation
	expiresAt time.Time
}

// NewMemoryPendingRepo returns an empty store.  now may be nil.
func NewMemoryPendingRepo(now func() time.Time) *MemoryPendingRepo {
	if now == nil {
		now = time.Now
	}
	return &MemoryPendingRepo{entries: make(map[string]pendingEntry), now: now}
}

// Get returns a copy of the session's reservation or
// model.ErrNoPendingReservation when there is none or it expired.
func (r *MemoryPendingRepo) Get(_ context.Context, sessionID string) (*model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		return nil, model.ErrNoPendingReservation
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.entries, sessionID)
		return nil, model.ErrNoPendingReservation
	}
	res := cloneReservation(e.res)
	return &res, nil
}

// Put stores a copy of res for sessionID, replacing any previous hold.
func (r *MemoryPendingRepo) Put(_ context.Context, sessionID string, res *model.Reservation, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.entries[sessionID] = pendingEntry{res: cloneReservation(*res), expiresAt: r.now().Add(ttl)}
	return nil
}

// Delete drops the session's hold.
func (r *MemoryPendingRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
	return nil
}

// DeleteIf drops the session's hold only while it is still reservation
// resID, so a finished confirmation cannot erase a newer submission.
func (r *MemoryPendingRepo) DeleteIf(_ context.Context, sessionID, resID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok || e.res.ID != resID {
		return false, nil
	}
	delete(r.entries, sessionID)
	return true, nil
}

// Len reports the number of live holds.
func (r *MemoryPendingRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.entries)
}

func (r *MemoryPendingRepo) sweepLocked() {
	now := r.now()
	for id, e := range r.entries {
		if !now.Before(e.expiresAt) {
			delete(r.entries, id)
		}
	}
}

func cloneReservation(res model.Reservation) model.Reservation {
	res.Seats = append([]string(nil), res.Seats...)
	if res.Price != nil {
		p := *res.Price
		res.Price = &p
	}
	return res
}
