package agreements

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local runs.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]Agreement
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Agreement)}
}

func (r *MemoryRepo) Create(_ context.Context, a Agreement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = a
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, workspaceID, id string) (Agreement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.WorkspaceID != workspaceID {
		return Agreement{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) GetByProposal(_ context.Context, workspaceID, proposalID string) (Agreement, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.WorkspaceID == workspaceID && a.ProposalID == proposalID {
			return a, true, nil
		}
	}
	return Agreement{}, false, nil
}

func (r *MemoryRepo) List(_ context.Context, workspaceID string) ([]Agreement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Agreement
	for _, a := range r.byID {
		if a.WorkspaceID == workspaceID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, a Agreement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[a.ID]
	if !ok || existing.WorkspaceID != a.WorkspaceID {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}
