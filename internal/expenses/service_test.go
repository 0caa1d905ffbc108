package expenses

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

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreate_Validation(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	cases := []UpsertRequest{
		{Category: "travel", AmountMinor: 100, Currency: "EUR"}, // zero date
		{Date: day(2026, 2, 1), AmountMinor: 100, Currency: "EUR"},
		{Date: day(2026, 2, 1), Category: "travel", AmountMinor: 0, Currency: "EUR"},
		{Date: day(2026, 2, 1), Category: "travel", AmountMinor: -5, Currency: "EUR"},
		{Date: day(2026, 2, 1), Category: "travel", AmountMinor: 100},
	}
	for i, req := range cases {
		if _, err := s.Create(ctx, "ws-1", req); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
}

func TestList_FiltersByCategoryAndRange(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	seed := []UpsertRequest{
		{Date: day(2026, 1, 10), Category: "travel", AmountMinor: 100, Currency: "EUR"},
		{Date: day(2026, 2, 10), Category: "travel", AmountMinor: 200, Currency: "EUR"},
		{Date: day(2026, 2, 15), Category: "software", AmountMinor: 300, Currency: "EUR"},
	}
	for _, req := range seed {
		if _, err := s.Create(ctx, "ws-1", req); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := s.List(ctx, "ws-1", ListFilter{Category: "travel"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 travel expenses, got %d", len(got))
	}

	got, err = s.List(ctx, "ws-1", ListFilter{From: day(2026, 2, 1), To: day(2026, 3, 1)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 February expenses, got %d", len(got))
	}
	if !got[0].Date.Before(got[1].Date) {
		t.Fatalf("expected date ordering")
	}
}

func TestUpdate_ReplacesFields(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	e, err := s.Create(ctx, "ws-1", UpsertRequest{
		Date: day(2026, 2, 1), Category: "travel", AmountMinor: 100, Currency: "EUR",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Update(ctx, "ws-1", e.ID, UpsertRequest{
		Date: day(2026, 2, 2), Category: "travel", Description: "train", AmountMinor: 150, Currency: "EUR",
		ReceiptDocumentID: "doc-1",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.AmountMinor != 150 || got.Description != "train" || got.ReceiptDocumentID != "doc-1" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestGet_WorkspaceIsolation(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	e, err := s.Create(ctx, "ws-1", UpsertRequest{
		Date: day(2026, 2, 1), Category: "travel", AmountMinor: 100, Currency: "EUR",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Get(ctx, "ws-2", e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
