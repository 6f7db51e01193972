package audit

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is a simple in-memory append-only repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	events []Entry
	logins []LoginEntry

	// FailAppend makes Append return this error. Used to exercise best-effort paths.
	FailAppend error
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(_ context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAppend != nil {
		return r.FailAppend
	}
	r.nextID++
	e.ID = r.nextID
	r.events = append(r.events, e)
	return nil
}

func (r *MemoryRepo) List(_ context.Context, limit int) ([]Entry, error) {
	r.mu.Lock()
	out := make([]Entry, len(r.events))
	copy(out, r.events)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) AppendLogin(_ context.Context, e LoginEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.logins = append(r.logins, e)
	return nil
}

func (r *MemoryRepo) RecentLogins(_ context.Context, username string, limit int) ([]LoginEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LoginEntry, 0, limit)
	for i := len(r.logins) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.logins[i].Username == username {
			out = append(out, r.logins[i])
		}
	}
	return out, nil
}

// Entries returns every stored entry in insertion order.
func (r *MemoryRepo) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.events))
	copy(out, r.events)
	return out
}

// Logins returns every stored login entry in insertion order.
func (r *MemoryRepo) Logins() []LoginEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LoginEntry, len(r.logins))
	copy(out, r.logins)
	return out
}
