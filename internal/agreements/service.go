package agreements

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm-platform/internal/proposals"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrProposalNotAccepted = errors.New("proposal is not accepted")
	ErrAlreadyExists       = errors.New("agreement already exists for proposal")
	ErrAlreadyTerminated   = errors.New("agreement already terminated")
)

type Repository interface {
	Create(ctx context.Context, a Agreement) error
	Get(ctx context.Context, workspaceID, id string) (Agreement, error)
	GetByProposal(ctx context.Context, workspaceID, proposalID string) (Agreement, bool, error)
	List(ctx context.Context, workspaceID string) ([]Agreement, error)
	Update(ctx context.Context, a Agreement) error
}

// ProposalReader is the slice of the proposals service agreements need.
type ProposalReader interface {
	Get(ctx context.Context, workspaceID, id string) (proposals.Proposal, error)
}

// Service creates agreements from accepted proposals.
//
// Invariant: at most one agreement per proposal.
type Service struct {
	repo      Repository
	proposals ProposalReader
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository, pr ProposalReader) *Service {
	return &Service{repo: repo, proposals: pr, clock: time.Now}
}

type CreateRequest struct {
	ProposalID    string     `json:"proposal_id"`
	Terms         string     `json:"terms"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

func (s *Service) Create(ctx context.Context, workspaceID string, req CreateRequest) (Agreement, error) {
	if workspaceID == "" || req.ProposalID == "" {
		return Agreement{}, ErrInvalidArgument
	}
	if strings.TrimSpace(req.Terms) == "" {
		return Agreement{}, ErrInvalidArgument
	}
	if req.EffectiveFrom.IsZero() {
		return Agreement{}, ErrInvalidArgument
	}
	if req.EffectiveTo != nil && !req.EffectiveTo.After(req.EffectiveFrom) {
		return Agreement{}, ErrInvalidArgument
	}

	p, err := s.proposals.Get(ctx, workspaceID, req.ProposalID)
	if err != nil {
		if errors.Is(err, proposals.ErrNotFound) {
			return Agreement{}, ErrNotFound
		}
		return Agreement{}, err
	}
	if p.Status != proposals.ProposalStatusAccepted {
		return Agreement{}, ErrProposalNotAccepted
	}

	if _, exists, err := s.repo.GetByProposal(ctx, workspaceID, req.ProposalID); err != nil {
		return Agreement{}, err
	} else if exists {
		return Agreement{}, ErrAlreadyExists
	}

	now := s.clock().UTC()
	a := Agreement{
		ID:            uuid.NewString(),
		WorkspaceID:   workspaceID,
		ClientID:      p.ClientID,
		ProposalID:    p.ID,
		Title:         p.Title,
		Terms:         req.Terms,
		Currency:      p.Currency,
		ValueMinor:    p.TotalMinor,
		EffectiveFrom: req.EffectiveFrom.UTC(),
		EffectiveTo:   req.EffectiveTo,
		Status:        AgreementStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Agreement{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, workspaceID, id string) (Agreement, error) {
	if workspaceID == "" || id == "" {
		return Agreement{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, workspaceID, id)
}

func (s *Service) List(ctx context.Context, workspaceID string) ([]Agreement, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, workspaceID)
}

func (s *Service) Terminate(ctx context.Context, workspaceID, id string) (Agreement, error) {
	a, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return Agreement{}, err
	}
	if a.Status == AgreementStatusTerminated {
		return Agreement{}, ErrAlreadyTerminated
	}
	now := s.clock().UTC()
	a.Status = AgreementStatusTerminated
	a.TerminatedAt = &now
	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return Agreement{}, err
	}
	return a, nil
}
