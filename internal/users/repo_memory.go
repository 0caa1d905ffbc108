package users

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repository for tests and local runs.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]User)}
}

func (r *MemoryRepo) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryRepo) GetByEmail(_ context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) List(_ context.Context, workspaceID string) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []User
	for _, u := range r.byID {
		if u.WorkspaceID == workspaceID {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	existing.FullName = u.FullName
	existing.Role = u.Role
	existing.Status = u.Status
	existing.UpdatedAt = u.UpdatedAt
	r.byID[u.ID] = existing
	return nil
}

func (r *MemoryRepo) SetCurrentRefreshToken(_ context.Context, id string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if token != nil {
		t := *token
		token = &t
	}
	u.CurrentRefreshToken = token
	r.byID[id] = u
	return nil
}

func cloneUser(u User) User {
	if u.CurrentRefreshToken != nil {
		t := *u.CurrentRefreshToken
		u.CurrentRefreshToken = &t
	}
	return u
}
