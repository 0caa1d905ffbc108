package proposals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrProposalExpired   = errors.New("proposal validity window has passed")
)

type Repository interface {
	Create(ctx context.Context, p Proposal) error
	Get(ctx context.Context, workspaceID, id string) (Proposal, error)
	List(ctx context.Context, workspaceID string) ([]Proposal, error)
	Update(ctx context.Context, p Proposal) error
}

// Service owns the proposal workflow.
//
// Tenancy invariant: workspace_id is required and enforced in all queries.
type Service struct {
	repo Repository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type CreateRequest struct {
	ClientID   string     `json:"client_id"`
	Title      string     `json:"title"`
	Currency   string     `json:"currency"`
	Lines      []Line     `json:"lines"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

func canTransition(from, to ProposalStatus) bool {
	switch from {
	case ProposalStatusDraft:
		return to == ProposalStatusSent
	case ProposalStatusSent:
		return to == ProposalStatusAccepted || to == ProposalStatusDeclined
	}
	return false
}

func total(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.Quantity * l.UnitPriceMinor
	}
	return sum
}

func (s *Service) Create(ctx context.Context, workspaceID string, req CreateRequest) (Proposal, error) {
	if workspaceID == "" || req.ClientID == "" || req.Currency == "" {
		return Proposal{}, ErrInvalidArgument
	}
	if strings.TrimSpace(req.Title) == "" {
		return Proposal{}, ErrInvalidArgument
	}
	if len(req.Lines) == 0 {
		return Proposal{}, ErrInvalidArgument
	}
	for _, l := range req.Lines {
		if strings.TrimSpace(l.Description) == "" || l.Quantity <= 0 || l.UnitPriceMinor < 0 {
			return Proposal{}, ErrInvalidArgument
		}
	}

	now := s.clock().UTC()
	p := Proposal{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		ClientID:    req.ClientID,
		Title:       strings.TrimSpace(req.Title),
		Currency:    req.Currency,
		Lines:       req.Lines,
		TotalMinor:  total(req.Lines),
		Status:      ProposalStatusDraft,
		ValidUntil:  req.ValidUntil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Proposal{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, workspaceID, id string) (Proposal, error) {
	if workspaceID == "" || id == "" {
		return Proposal{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, workspaceID, id)
}

func (s *Service) List(ctx context.Context, workspaceID string) ([]Proposal, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, workspaceID)
}

func (s *Service) Send(ctx context.Context, workspaceID, id string) (Proposal, error) {
	p, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return Proposal{}, err
	}
	if !canTransition(p.Status, ProposalStatusSent) {
		return Proposal{}, ErrInvalidTransition
	}
	now := s.clock().UTC()
	p.Status = ProposalStatusSent
	p.SentAt = &now
	p.UpdatedAt = now
	if err := s.repo.Update(ctx, p); err != nil {
		return Proposal{}, err
	}
	return p, nil
}

func (s *Service) Accept(ctx context.Context, workspaceID, id string) (Proposal, error) {
	return s.decide(ctx, workspaceID, id, ProposalStatusAccepted)
}

func (s *Service) Decline(ctx context.Context, workspaceID, id string) (Proposal, error) {
	return s.decide(ctx, workspaceID, id, ProposalStatusDeclined)
}

func (s *Service) decide(ctx context.Context, workspaceID, id string, to ProposalStatus) (Proposal, error) {
	p, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return Proposal{}, err
	}
	if !canTransition(p.Status, to) {
		return Proposal{}, ErrInvalidTransition
	}
	now := s.clock().UTC()
	if to == ProposalStatusAccepted && p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return Proposal{}, ErrProposalExpired
	}
	p.Status = to
	p.DecidedAt = &now
	p.UpdatedAt = now
	if err := s.repo.Update(ctx, p); err != nil {
		return Proposal{}, err
	}
	return p, nil
}
