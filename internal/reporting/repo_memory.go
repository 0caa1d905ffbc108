package reporting

import (
	"context"
	"errors"
	"sync"
	"time"

	"crm-platform/internal/expenses"
	"crm-platform/internal/invoices"
)

// MemoryRepo is a simple in-memory reporting repository for tests and early development.
// It enforces workspace isolation on reads.

type MemoryRepo struct {
	mu sync.Mutex

	Payments []invoices.Payment
	Invoices []invoices.Invoice
	Balances []invoices.Outstanding
	Expenses []expenses.Expense
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) ListPayments(_ context.Context, workspaceID string, from, to time.Time) ([]invoices.Payment, error) {
	if workspaceID == "" {
		return nil, errors.New("workspace_id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]invoices.Payment, 0)
	for _, p := range r.Payments {
		if p.WorkspaceID != workspaceID {
			continue
		}
		if !p.CreatedAt.IsZero() {
			if p.CreatedAt.Before(from) || !p.CreatedAt.Before(to) {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *MemoryRepo) ListIssuedInvoices(_ context.Context, workspaceID string) ([]invoices.Invoice, error) {
	if workspaceID == "" {
		return nil, errors.New("workspace_id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]invoices.Invoice, 0)
	for _, inv := range r.Invoices {
		if inv.WorkspaceID != workspaceID {
			continue
		}
		if inv.Status != invoices.InvoiceStatusIssued {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *MemoryRepo) ListOutstanding(_ context.Context, workspaceID string) ([]invoices.Outstanding, error) {
	if workspaceID == "" {
		return nil, errors.New("workspace_id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]invoices.Outstanding, 0)
	for _, b := range r.Balances {
		if b.WorkspaceID == workspaceID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ListExpenses(_ context.Context, workspaceID string, from, to time.Time) ([]expenses.Expense, error) {
	if workspaceID == "" {
		return nil, errors.New("workspace_id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]expenses.Expense, 0)
	for _, e := range r.Expenses {
		if e.WorkspaceID != workspaceID {
			continue
		}
		if !e.Date.IsZero() {
			if e.Date.Before(from) || !e.Date.Before(to) {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}
