package taxes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRateNotFound    = errors.New("tax rate not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// RateRepository abstracts rate persistence.
type RateRepository interface {
	Create(ctx context.Context, rate TaxRate) error
	List(ctx context.Context, workspaceID string) ([]TaxRate, error)
	FindEffectiveRate(ctx context.Context, workspaceID, region string, at time.Time) (TaxRate, bool, error)
}

// Service resolves workspace-scoped tax rates and computes tax amounts.
//
// Contract:
// - Region-based lookup; the most recently effective active rate wins.
// - Pure calculation + repository lookups; no external tax APIs.
type Service struct {
	repo RateRepository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo RateRepository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

const maxRateBps = 10000

type CreateRateRequest struct {
	Region        string     `json:"region"`
	Name          string     `json:"name"`
	RateBps       int64      `json:"rate_bps"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

func (s *Service) CreateRate(ctx context.Context, workspaceID string, req CreateRateRequest) (TaxRate, error) {
	if workspaceID == "" || strings.TrimSpace(req.Region) == "" {
		return TaxRate{}, ErrInvalidArgument
	}
	if req.RateBps < 0 || req.RateBps > maxRateBps {
		return TaxRate{}, ErrInvalidArgument
	}
	if req.EffectiveFrom.IsZero() {
		return TaxRate{}, ErrInvalidArgument
	}
	if req.EffectiveTo != nil && !req.EffectiveTo.After(req.EffectiveFrom) {
		return TaxRate{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	rate := TaxRate{
		ID:            uuid.NewString(),
		WorkspaceID:   workspaceID,
		Region:        strings.TrimSpace(req.Region),
		Name:          strings.TrimSpace(req.Name),
		RateBps:       req.RateBps,
		EffectiveFrom: req.EffectiveFrom.UTC(),
		EffectiveTo:   req.EffectiveTo,
		Status:        RateStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, rate); err != nil {
		return TaxRate{}, err
	}
	return rate, nil
}

func (s *Service) ListRates(ctx context.Context, workspaceID string) ([]TaxRate, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, workspaceID)
}

type TaxAmount struct {
	Region   string `json:"region"`
	RateBps  int64  `json:"rate_bps"`
	TaxMinor int64  `json:"tax_minor"`
}

// ComputeTax applies the effective rate for the region to a net amount.
// Rounding is half-up in minor units.
func (s *Service) ComputeTax(ctx context.Context, workspaceID, region string, netMinor int64, at time.Time) (TaxAmount, error) {
	if workspaceID == "" || region == "" {
		return TaxAmount{}, ErrInvalidArgument
	}
	if netMinor < 0 {
		return TaxAmount{}, ErrInvalidArgument
	}
	if at.IsZero() {
		at = s.clock().UTC()
	}

	rate, ok, err := s.repo.FindEffectiveRate(ctx, workspaceID, region, at)
	if err != nil {
		return TaxAmount{}, err
	}
	if !ok {
		return TaxAmount{}, ErrRateNotFound
	}

	return TaxAmount{
		Region:   region,
		RateBps:  rate.RateBps,
		TaxMinor: (netMinor*rate.RateBps + maxRateBps/2) / maxRateBps,
	}, nil
}
