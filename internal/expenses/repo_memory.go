package expenses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local runs.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]Expense
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Expense)}
}

func (r *MemoryRepo) Create(_ context.Context, e Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[e.ID] = e
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, workspaceID, id string) (Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok || e.WorkspaceID != workspaceID {
		return Expense{}, ErrNotFound
	}
	return e, nil
}

func (r *MemoryRepo) List(_ context.Context, workspaceID string, f ListFilter) ([]Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Expense
	for _, e := range r.byID {
		if e.WorkspaceID != workspaceID {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if !f.From.IsZero() && e.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !e.Date.Before(f.To) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, e Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[e.ID]
	if !ok || existing.WorkspaceID != e.WorkspaceID {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}
