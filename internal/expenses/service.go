package expenses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Repository interface {
	Create(ctx context.Context, e Expense) error
	Get(ctx context.Context, workspaceID, id string) (Expense, error)
	List(ctx context.Context, workspaceID string, f ListFilter) ([]Expense, error)
	Update(ctx context.Context, e Expense) error
}

type ListFilter struct {
	Category string
	From     time.Time
	To       time.Time
}

// Service records workspace expenses.
type Service struct {
	repo Repository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type UpsertRequest struct {
	Date              time.Time `json:"date"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	AmountMinor       int64     `json:"amount_minor"`
	Currency          string    `json:"currency"`
	ReceiptDocumentID string    `json:"receipt_document_id,omitempty"`
}

func validate(req UpsertRequest) error {
	if req.Date.IsZero() {
		return ErrInvalidArgument
	}
	if strings.TrimSpace(req.Category) == "" || req.Currency == "" {
		return ErrInvalidArgument
	}
	if req.AmountMinor <= 0 {
		return ErrInvalidArgument
	}
	return nil
}

func (s *Service) Create(ctx context.Context, workspaceID string, req UpsertRequest) (Expense, error) {
	if workspaceID == "" {
		return Expense{}, ErrInvalidArgument
	}
	if err := validate(req); err != nil {
		return Expense{}, err
	}
	now := s.clock().UTC()
	e := Expense{
		ID:                uuid.NewString(),
		WorkspaceID:       workspaceID,
		Date:              req.Date.UTC(),
		Category:          strings.TrimSpace(req.Category),
		Description:       strings.TrimSpace(req.Description),
		AmountMinor:       req.AmountMinor,
		Currency:          req.Currency,
		ReceiptDocumentID: req.ReceiptDocumentID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, workspaceID, id string) (Expense, error) {
	if workspaceID == "" || id == "" {
		return Expense{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, workspaceID, id)
}

func (s *Service) List(ctx context.Context, workspaceID string, f ListFilter) ([]Expense, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, workspaceID, f)
}

func (s *Service) Update(ctx context.Context, workspaceID, id string, req UpsertRequest) (Expense, error) {
	if err := validate(req); err != nil {
		return Expense{}, err
	}
	e, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return Expense{}, err
	}
	e.Date = req.Date.UTC()
	e.Category = strings.TrimSpace(req.Category)
	e.Description = strings.TrimSpace(req.Description)
	e.AmountMinor = req.AmountMinor
	e.Currency = req.Currency
	e.ReceiptDocumentID = req.ReceiptDocumentID
	e.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}
