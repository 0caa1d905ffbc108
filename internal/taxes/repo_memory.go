package taxes

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory rate repository for tests and local runs.
type MemoryRepo struct {
	mu    sync.Mutex
	rates []TaxRate
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(_ context.Context, rate TaxRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates = append(r.rates, rate)
	return nil
}

func (r *MemoryRepo) List(_ context.Context, workspaceID string) ([]TaxRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []TaxRate
	for _, rate := range r.rates {
		if rate.WorkspaceID == workspaceID {
			out = append(out, rate)
		}
	}
	return out, nil
}

func (r *MemoryRepo) FindEffectiveRate(_ context.Context, workspaceID, region string, at time.Time) (TaxRate, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Prefer the most recent effective rate row.
	var best TaxRate
	found := false

	for _, rate := range r.rates {
		if rate.WorkspaceID != workspaceID {
			continue
		}
		if rate.Region != region {
			continue
		}
		if rate.Status != RateStatusActive {
			continue
		}
		if at.Before(rate.EffectiveFrom) {
			continue
		}
		if rate.EffectiveTo != nil && !at.Before(*rate.EffectiveTo) {
			continue
		}

		if !found || rate.EffectiveFrom.After(best.EffectiveFrom) {
			best = rate
			found = true
		}
	}

	return best, found, nil
}
