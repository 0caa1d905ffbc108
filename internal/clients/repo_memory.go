package clients

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local runs.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]Client
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Client)}
}

func (r *MemoryRepo) Create(_ context.Context, c Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, workspaceID, id string) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.WorkspaceID != workspaceID {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) List(_ context.Context, workspaceID string, f ListFilter) ([]Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Client
	for _, c := range r.byID {
		if c.WorkspaceID != workspaceID {
			continue
		}
		if c.Archived && !f.IncludeArchived {
			continue
		}
		if f.NameQuery != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.NameQuery)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, c Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[c.ID]
	if !ok || existing.WorkspaceID != c.WorkspaceID {
		return ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}
