package proposals

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local runs.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]Proposal
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Proposal)}
}

func (r *MemoryRepo) Create(_ context.Context, p Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, workspaceID, id string) (Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.WorkspaceID != workspaceID {
		return Proposal{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) List(_ context.Context, workspaceID string) ([]Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Proposal
	for _, p := range r.byID {
		if p.WorkspaceID == workspaceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, p Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[p.ID]
	if !ok || existing.WorkspaceID != p.WorkspaceID {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}
