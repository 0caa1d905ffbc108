package clients

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService() *Service {
	s := NewService(NewMemoryRepo())
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return base }
	return s
}

func TestCreate_RequiresName(t *testing.T) {
	s := newTestService()
	if _, err := s.Create(context.Background(), "ws-1", UpsertRequest{Name: "   "}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestList_SearchAndArchiveFilter(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	acme, err := s.Create(ctx, "ws-1", UpsertRequest{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "ws-1", UpsertRequest{Name: "Globex"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "ws-2", UpsertRequest{Name: "Acme Other Tenant"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.List(ctx, "ws-1", ListFilter{NameQuery: "acme"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != acme.ID {
		t.Fatalf("expected only ws-1 acme, got %+v", got)
	}

	if _, err := s.Archive(ctx, "ws-1", acme.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	got, err = s.List(ctx, "ws-1", ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Globex" {
		t.Fatalf("archived client must be hidden by default, got %+v", got)
	}

	got, err = s.List(ctx, "ws-1", ListFilter{IncludeArchived: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 with archived included, got %d", len(got))
	}
}

func TestGet_WorkspaceIsolation(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	c, err := s.Create(ctx, "ws-1", UpsertRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Get(ctx, "ws-2", c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across workspaces, got %v", err)
	}
}

func TestUpdate_ReplacesFields(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	c, err := s.Create(ctx, "ws-1", UpsertRequest{Name: "Acme", Email: "old@acme.test"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.Update(ctx, "ws-1", c.ID, UpsertRequest{Name: "Acme Ltd", Email: "new@acme.test"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Acme Ltd" || got.Email != "new@acme.test" {
		t.Fatalf("update not applied: %+v", got)
	}
}
