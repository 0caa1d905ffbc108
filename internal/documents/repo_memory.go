package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local runs.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Document)}
}

func (r *MemoryRepo) Create(_ context.Context, d Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[d.ID] = d
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, workspaceID, id string) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok || d.WorkspaceID != workspaceID {
		return Document{}, ErrNotFound
	}
	return d, nil
}

func (r *MemoryRepo) List(_ context.Context, workspaceID string) ([]Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Document
	for _, d := range r.byID {
		if d.WorkspaceID == workspaceID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
