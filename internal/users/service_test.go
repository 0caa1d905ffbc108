package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm-platform/internal/auth"
	"crm-platform/internal/rbac"
)

func newTestService() *Service {
	s := NewService(NewMemoryRepo())
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return base }
	return s
}

func TestCreate_HashesPasswordAndNormalizesEmail(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	u, err := s.Create(ctx, "ws-1", CreateRequest{
		Email:    "  Ada@Example.COM ",
		FullName: "Ada Lovelace",
		Password: "correct horse",
		Role:     rbac.RoleMember,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "correct horse" {
		t.Fatalf("password must be stored hashed")
	}
	if !auth.VerifyPassword(u.PasswordHash, "correct horse") {
		t.Fatalf("stored hash does not verify")
	}
	if u.Status != UserStatusActive {
		t.Fatalf("expected active status, got %q", u.Status)
	}
}

func TestCreate_RejectsBadInput(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	cases := []CreateRequest{
		{Email: "no-at-sign", Password: "long enough", Role: rbac.RoleMember},
		{Email: "a@b.com", Password: "short", Role: rbac.RoleMember},
		{Email: "a@b.com", Password: "long enough", Role: "superuser"},
	}
	for i, req := range cases {
		if _, err := s.Create(ctx, "ws-1", req); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
	if _, err := s.Create(ctx, "", CreateRequest{Email: "a@b.com", Password: "long enough", Role: rbac.RoleMember}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty workspace, got %v", err)
	}
}

func TestCreate_DuplicateEmailInWorkspace(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	req := CreateRequest{Email: "a@b.com", Password: "long enough", Role: rbac.RoleMember}
	if _, err := s.Create(ctx, "ws-1", req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := s.Create(ctx, "ws-1", req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// Email uniqueness is global: login resolves the principal by email alone,
// so the same address in two workspaces would make it ambiguous which
// credentials apply.
func TestCreate_DuplicateEmailAcrossWorkspaces(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	req := CreateRequest{Email: "a@b.com", Password: "long enough", Role: rbac.RoleMember}
	if _, err := s.Create(ctx, "ws-1", req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := s.Create(ctx, "ws-2", req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken across workspaces, got %v", err)
	}
}

func TestGet_EnforcesWorkspaceIsolation(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	u, err := s.Create(ctx, "ws-1", CreateRequest{Email: "a@b.com", Password: "long enough", Role: rbac.RoleMember})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Get(ctx, "ws-2", u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-workspace read must look like not found, got %v", err)
	}
	if _, err := s.Get(ctx, "ws-1", u.ID); err != nil {
		t.Fatalf("same-workspace read: %v", err)
	}
}

func TestSetRole_ValidatesRole(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	u, err := s.Create(ctx, "ws-1", CreateRequest{Email: "a@b.com", Password: "long enough", Role: rbac.RoleMember})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.SetRole(ctx, "ws-1", u.ID, "root"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	got, err := s.SetRole(ctx, "ws-1", u.ID, rbac.RoleAccountant)
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if got.Role != rbac.RoleAccountant {
		t.Fatalf("expected accountant, got %q", got.Role)
	}
}

func TestDisable_RevokesRefreshChain(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	u, err := s.Create(ctx, "ws-1", CreateRequest{Email: "a@b.com", Password: "long enough", Role: rbac.RoleMember})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tok := "refresh-token"
	if err := s.repo.SetCurrentRefreshToken(ctx, u.ID, &tok); err != nil {
		t.Fatalf("seed refresh token: %v", err)
	}

	got, err := s.Disable(ctx, "ws-1", u.ID)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if got.Status != UserStatusDisabled {
		t.Fatalf("expected disabled, got %q", got.Status)
	}

	stored, err := s.repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.CurrentRefreshToken != nil {
		t.Fatalf("disable must clear the refresh chain")
	}
	if !stored.IsDisabled() {
		t.Fatalf("expected stored user disabled")
	}
}
