package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm-platform/internal/auth"
	"crm-platform/internal/rbac"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Repository is the persistence surface the service needs. PostgresRepo and
// MemoryRepo both satisfy it.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, workspaceID string) ([]User, error)
	Update(ctx context.Context, u User) error

	// SetCurrentRefreshToken clears or replaces the account's session chain.
	SetCurrentRefreshToken(ctx context.Context, id string, token *string) error
}

// Service manages workspace accounts.
//
// Tenancy invariant: every operation is scoped to a workspace; callers pass
// the workspace of the authenticated principal, never one from the request
// body.
type Service struct {
	repo Repository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type CreateRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

const minPasswordLength = 8

func (s *Service) Create(ctx context.Context, workspaceID string, req CreateRequest) (User, error) {
	if workspaceID == "" {
		return User{}, ErrInvalidArgument
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrInvalidArgument
	}
	if len(req.Password) < minPasswordLength {
		return User{}, ErrInvalidArgument
	}
	if !rbac.IsValidRole(req.Role) {
		return User{}, ErrInvalidArgument
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return User{}, err
	}

	now := s.clock().UTC()
	u := User{
		ID:           uuid.NewString(),
		WorkspaceID:  workspaceID,
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         req.Role,
		Status:       UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, workspaceID, id string) (User, error) {
	if workspaceID == "" || id == "" {
		return User{}, ErrInvalidArgument
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u.WorkspaceID != workspaceID {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, workspaceID string) ([]User, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, workspaceID)
}

func (s *Service) UpdateProfile(ctx context.Context, workspaceID, id string, req UpdateProfileRequest) (User, error) {
	u, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return User{}, err
	}
	u.FullName = strings.TrimSpace(req.FullName)
	u.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) SetRole(ctx context.Context, workspaceID, id, role string) (User, error) {
	if !rbac.IsValidRole(role) {
		return User{}, ErrInvalidArgument
	}
	u, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return User{}, err
	}
	u.Role = role
	u.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Disable blocks future logins and revokes the account's refresh chain.
// Access tokens already in the wild stay valid until they expire.
func (s *Service) Disable(ctx context.Context, workspaceID, id string) (User, error) {
	u, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return User{}, err
	}
	u.Status = UserStatusDisabled
	u.UpdatedAt = s.clock().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	if err := s.repo.SetCurrentRefreshToken(ctx, id, nil); err != nil && !errors.Is(err, auth.ErrPrincipalNotFound) {
		return User{}, err
	}
	u.CurrentRefreshToken = nil
	return u, nil
}
