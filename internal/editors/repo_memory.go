package editors

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []Editor
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Create(_ context.Context, e *Editor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.Username == e.Username {
			return ErrUsernameTaken
		}
	}
	r.nextID++
	e.ID = r.nextID
	cp := *e
	cp.Permissions = append([]string(nil), e.Permissions...)
	r.rows = append(r.rows, cp)
	return nil
}

func (r *MemoryRepo) List(_ context.Context) ([]Editor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Editor, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.rows {
		if x.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) FindByUsername(_ context.Context, username string) (Editor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.Username == username {
			x.Permissions = append([]string(nil), x.Permissions...)
			return x, nil
		}
	}
	return Editor{}, ErrNotFound
}

func (r *MemoryRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].PasswordHash = hash
			return nil
		}
	}
	return ErrNotFound
}
