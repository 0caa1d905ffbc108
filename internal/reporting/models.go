package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// RevenueSummaryRequest requests aggregated payment metrics.
// Workspace isolation: WorkspaceID is required.

type RevenueSummaryRequest struct {
	WorkspaceID string    `json:"workspace_id"`
	Range       TimeRange `json:"range"`
	Currency    string    `json:"currency,omitempty"`
}

type RevenueSummary struct {
	WorkspaceID string `json:"workspace_id"`
	Currency    string `json:"currency"`

	TotalReceivedMinor int64 `json:"total_received_minor"`
	PaymentCount       int   `json:"payment_count"`
	InvoicesPaidInto   int   `json:"invoices_paid_into"`
}

// OutstandingSummaryRequest requests the open receivables position.
// Outstanding is derived from the invoice balance projection.

type OutstandingSummaryRequest struct {
	WorkspaceID string    `json:"workspace_id"`
	AsOf        time.Time `json:"as_of"`
}

type OutstandingSummary struct {
	WorkspaceID string `json:"workspace_id"`

	TotalOutstandingMinor int64 `json:"total_outstanding_minor"`
	OpenInvoices          int   `json:"open_invoices"`

	OverdueMinor    int64 `json:"overdue_minor"`
	OverdueInvoices int   `json:"overdue_invoices"`
}

// ExpenseSummaryRequest requests aggregated expense metrics over a range.

type ExpenseSummaryRequest struct {
	WorkspaceID string    `json:"workspace_id"`
	Range       TimeRange `json:"range"`
}

type ExpenseSummary struct {
	WorkspaceID string `json:"workspace_id"`

	TotalMinor   int64            `json:"total_minor"`
	ExpenseCount int              `json:"expense_count"`
	ByCategory   map[string]int64 `json:"by_category"`
}
