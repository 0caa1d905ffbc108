package reporting

import (
	"context"
	"errors"
	"time"

	"crm-platform/internal/expenses"
	"crm-platform/internal/invoices"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
//
// IMPORTANT:
// - Methods must enforce workspace filtering.
// - Implementations should query immutable sources when possible (payments,
//   the outstanding projection, expense rows).

type Repository interface {
	ListPayments(ctx context.Context, workspaceID string, from, to time.Time) ([]invoices.Payment, error)
	ListIssuedInvoices(ctx context.Context, workspaceID string) ([]invoices.Invoice, error)
	ListOutstanding(ctx context.Context, workspaceID string) ([]invoices.Outstanding, error)
	ListExpenses(ctx context.Context, workspaceID string, from, to time.Time) ([]expenses.Expense, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) RevenueSummary(ctx context.Context, req RevenueSummaryRequest) (RevenueSummary, error) {
	if req.WorkspaceID == "" {
		return RevenueSummary{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return RevenueSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return RevenueSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListPayments(ctx, req.WorkspaceID, req.Range.From, req.Range.To)
	if err != nil {
		return RevenueSummary{}, err
	}

	out := RevenueSummary{WorkspaceID: req.WorkspaceID, Currency: req.Currency}
	seen := make(map[string]struct{})
	for _, p := range rows {
		if out.Currency == "" {
			out.Currency = p.Currency
		}
		if req.Currency != "" && p.Currency != req.Currency {
			continue
		}
		out.TotalReceivedMinor += p.AmountMinor
		out.PaymentCount++
		if _, ok := seen[p.InvoiceID]; !ok {
			seen[p.InvoiceID] = struct{}{}
			out.InvoicesPaidInto++
		}
	}
	if out.Currency == "" {
		out.Currency = "UNKNOWN"
	}
	return out, nil
}

func (s *Service) OutstandingSummary(ctx context.Context, req OutstandingSummaryRequest) (OutstandingSummary, error) {
	if req.WorkspaceID == "" || req.AsOf.IsZero() {
		return OutstandingSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return OutstandingSummary{}, errors.New("reporting: repository not configured")
	}

	open, err := s.repo.ListIssuedInvoices(ctx, req.WorkspaceID)
	if err != nil {
		return OutstandingSummary{}, err
	}
	balances, err := s.repo.ListOutstanding(ctx, req.WorkspaceID)
	if err != nil {
		return OutstandingSummary{}, err
	}

	byInvoice := make(map[string]int64, len(balances))
	for _, b := range balances {
		byInvoice[b.InvoiceID] = b.OutstandingMinor
	}

	out := OutstandingSummary{WorkspaceID: req.WorkspaceID}
	for _, inv := range open {
		bal, ok := byInvoice[inv.ID]
		if !ok || bal <= 0 {
			continue
		}
		out.TotalOutstandingMinor += bal
		out.OpenInvoices++
		if inv.DueDate != nil && inv.DueDate.Before(req.AsOf) {
			out.OverdueMinor += bal
			out.OverdueInvoices++
		}
	}
	return out, nil
}

func (s *Service) ExpenseSummary(ctx context.Context, req ExpenseSummaryRequest) (ExpenseSummary, error) {
	if req.WorkspaceID == "" {
		return ExpenseSummary{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return ExpenseSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return ExpenseSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListExpenses(ctx, req.WorkspaceID, req.Range.From, req.Range.To)
	if err != nil {
		return ExpenseSummary{}, err
	}

	out := ExpenseSummary{WorkspaceID: req.WorkspaceID, ByCategory: map[string]int64{}}
	for _, e := range rows {
		out.TotalMinor += e.AmountMinor
		out.ExpenseCount++
		out.ByCategory[e.Category] += e.AmountMinor
	}
	return out, nil
}
