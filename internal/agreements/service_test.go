package agreements

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm-platform/internal/proposals"
)

type fixture struct {
	svc       *Service
	proposals *proposals.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ps := proposals.NewService(proposals.NewMemoryRepo())
	svc := NewService(NewMemoryRepo(), ps)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return base }
	return &fixture{svc: svc, proposals: ps}
}

func (f *fixture) acceptedProposal(t *testing.T) proposals.Proposal {
	t.Helper()
	ctx := context.Background()
	p, err := f.proposals.Create(ctx, "ws-1", proposals.CreateRequest{
		ClientID: "c-1",
		Title:    "Website relaunch",
		Currency: "EUR",
		Lines:    []proposals.Line{{Description: "design", Quantity: 10, UnitPriceMinor: 9000}},
	})
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	if _, err := f.proposals.Send(ctx, "ws-1", p.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	p, err = f.proposals.Accept(ctx, "ws-1", p.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	return p
}

func TestCreate_FromAcceptedProposal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.acceptedProposal(t)

	a, err := f.svc.Create(ctx, "ws-1", CreateRequest{
		ProposalID:    p.ID,
		Terms:         "Net 30, quarterly review.",
		EffectiveFrom: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create agreement: %v", err)
	}
	if a.ClientID != p.ClientID || a.ValueMinor != p.TotalMinor || a.Currency != "EUR" {
		t.Fatalf("agreement must inherit proposal fields: %+v", a)
	}
	if a.Status != AgreementStatusActive {
		t.Fatalf("expected active, got %s", a.Status)
	}
}

func TestCreate_RejectsUnacceptedProposal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.proposals.Create(ctx, "ws-1", proposals.CreateRequest{
		ClientID: "c-1",
		Title:    "Draft only",
		Currency: "EUR",
		Lines:    []proposals.Line{{Description: "x", Quantity: 1, UnitPriceMinor: 100}},
	})
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	_, err = f.svc.Create(ctx, "ws-1", CreateRequest{
		ProposalID:    p.ID,
		Terms:         "terms",
		EffectiveFrom: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrProposalNotAccepted) {
		t.Fatalf("expected ErrProposalNotAccepted, got %v", err)
	}
}

func TestCreate_OnePerProposal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.acceptedProposal(t)

	req := CreateRequest{
		ProposalID:    p.ID,
		Terms:         "terms",
		EffectiveFrom: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := f.svc.Create(ctx, "ws-1", req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.Create(ctx, "ws-1", req); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestTerminate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.acceptedProposal(t)

	a, err := f.svc.Create(ctx, "ws-1", CreateRequest{
		ProposalID:    p.ID,
		Terms:         "terms",
		EffectiveFrom: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := f.svc.Terminate(ctx, "ws-1", a.ID)
	if err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if got.Status != AgreementStatusTerminated || got.TerminatedAt == nil {
		t.Fatalf("unexpected state: %+v", got)
	}

	if _, err := f.svc.Terminate(ctx, "ws-1", a.ID); !errors.Is(err, ErrAlreadyTerminated) {
		t.Fatalf("expected ErrAlreadyTerminated, got %v", err)
	}
}

func TestCreate_InvalidWindow(t *testing.T) {
	f := newFixture(t)
	p := f.acceptedProposal(t)

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.Create(context.Background(), "ws-1", CreateRequest{
		ProposalID:    p.ID,
		Terms:         "terms",
		EffectiveFrom: from,
		EffectiveTo:   &from,
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
