package audit

import (
	"context"
	"testing"
)

func TestService_AppendRequiresWorkspaceAndType(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.Append(context.Background(), Event{Type: EventTypeLogin}); err == nil {
		t.Fatalf("expected error")
	}
	if err := svc.Append(context.Background(), Event{WorkspaceID: "w"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestService_AppendsImmutableEvents(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogAuth(context.Background(), EventTypeLogin, "w", "u", "1.2.3.4", "login ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.LogAdminAction(context.Background(), "w", "admin-1", "admin", "1.2.3.4", "disabled account", "u", "{}"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Type != EventTypeLogin || evs[0].IPAddress != "1.2.3.4" {
		t.Fatalf("unexpected first event: %+v", evs[0])
	}
	if evs[1].Type != EventTypeAdminAction || evs[1].TargetUserID != "u" {
		t.Fatalf("unexpected second event: %+v", evs[1])
	}
	if evs[0].ID == "" || evs[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled")
	}
}
