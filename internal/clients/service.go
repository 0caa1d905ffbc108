package clients

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
	Create(ctx context.Context, c Client) error
	Get(ctx context.Context, workspaceID, id string) (Client, error)
	List(ctx context.Context, workspaceID string, f ListFilter) ([]Client, error)
	Update(ctx context.Context, c Client) error
}

type ListFilter struct {
	NameQuery       string
	IncludeArchived bool
}

// Service provides client record operations.
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

type UpsertRequest struct {
	Name           string `json:"name"`
	ContactPerson  string `json:"contact_person"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	BillingAddress string `json:"billing_address"`
	Notes          string `json:"notes"`
}

func (s *Service) Create(ctx context.Context, workspaceID string, req UpsertRequest) (Client, error) {
	if workspaceID == "" || strings.TrimSpace(req.Name) == "" {
		return Client{}, ErrInvalidArgument
	}
	now := s.clock().UTC()
	c := Client{
		ID:             uuid.NewString(),
		WorkspaceID:    workspaceID,
		Name:           strings.TrimSpace(req.Name),
		ContactPerson:  strings.TrimSpace(req.ContactPerson),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		BillingAddress: req.BillingAddress,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, workspaceID, id string) (Client, error) {
	if workspaceID == "" || id == "" {
		return Client{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, workspaceID, id)
}

func (s *Service) List(ctx context.Context, workspaceID string, f ListFilter) ([]Client, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, workspaceID, f)
}

func (s *Service) Update(ctx context.Context, workspaceID, id string, req UpsertRequest) (Client, error) {
	if strings.TrimSpace(req.Name) == "" {
		return Client{}, ErrInvalidArgument
	}
	c, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return Client{}, err
	}
	c.Name = strings.TrimSpace(req.Name)
	c.ContactPerson = strings.TrimSpace(req.ContactPerson)
	c.Email = strings.TrimSpace(req.Email)
	c.Phone = strings.TrimSpace(req.Phone)
	c.BillingAddress = req.BillingAddress
	c.Notes = req.Notes
	c.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// Archive hides a client from default listings. Existing agreements and
// invoices keep their references.
func (s *Service) Archive(ctx context.Context, workspaceID, id string) (Client, error) {
	c, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return Client{}, err
	}
	c.Archived = true
	c.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}
