package auth

import (
	"context"
	"sync"
)

// MemoryPrincipalStore is an in-memory PrincipalStore for tests and local
// development. The mutex gives SwapCurrentRefreshToken the same atomicity a
// SQL conditional UPDATE provides in production.
//
// NOTE: Not intended for production; the Postgres implementation lives in
// internal/users.
type MemoryPrincipalStore struct {
	mu   sync.Mutex
	byID map[string]*Principal
}

func NewMemoryPrincipalStore() *MemoryPrincipalStore {
	return &MemoryPrincipalStore{byID: make(map[string]*Principal)}
}

// Put inserts or replaces a principal.
func (s *MemoryPrincipalStore) Put(p Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.byID[p.ID] = &cp
}

func (s *MemoryPrincipalStore) GetPrincipalByID(ctx context.Context, id string) (Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return Principal{}, ErrPrincipalNotFound
	}
	return clonePrincipal(*p), nil
}

func (s *MemoryPrincipalStore) GetPrincipalByEmail(ctx context.Context, email string) (Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.Email == email {
			return clonePrincipal(*p), nil
		}
	}
	return Principal{}, ErrPrincipalNotFound
}

func (s *MemoryPrincipalStore) SetCurrentRefreshToken(ctx context.Context, id string, token *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return ErrPrincipalNotFound
	}
	p.CurrentRefreshToken = cloneToken(token)
	return nil
}

func (s *MemoryPrincipalStore) SwapCurrentRefreshToken(ctx context.Context, id string, expectedOld, next *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return false, ErrPrincipalNotFound
	}
	if !tokenEqual(p.CurrentRefreshToken, expectedOld) {
		return false, nil
	}
	p.CurrentRefreshToken = cloneToken(next)
	return true, nil
}

func tokenEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneToken(t *string) *string {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func clonePrincipal(p Principal) Principal {
	p.CurrentRefreshToken = cloneToken(p.CurrentRefreshToken)
	return p
}
