package invoices

import "time"

// Invoices are tenant-scoped. Money is in minor units (int64).
//
// Status lifecycle: draft -> issued -> paid | void (draft may also be voided).
// Totals are computed when the invoice is issued and frozen from then on.
type Invoice struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`
	ClientID    string `json:"client_id" db:"client_id"`

	// Number is assigned from a per-workspace sequence when the invoice is
	// issued. Empty while draft.
	Number string `json:"number,omitempty" db:"number"`

	Currency string `json:"currency" db:"currency"`

	// TaxRegion selects the effective tax rate at issue time.
	TaxRegion string `json:"tax_region" db:"tax_region"`

	SubtotalMinor int64 `json:"subtotal_minor" db:"subtotal_minor"`
	TaxMinor      int64 `json:"tax_minor" db:"tax_minor"`
	TotalMinor    int64 `json:"total_minor" db:"total_minor"`

	Status InvoiceStatus `json:"status" db:"status"`

	IssuedAt *time.Time `json:"issued_at,omitempty" db:"issued_at"`
	DueDate  *time.Time `json:"due_date,omitempty" db:"due_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Lines []LineItem `json:"lines,omitempty" db:"-"`
}

type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusVoid   InvoiceStatus = "void"
)

// LineItem is one billed position on an invoice.
type LineItem struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`
	InvoiceID   string `json:"invoice_id" db:"invoice_id"`

	Position       int    `json:"position" db:"position"`
	Description    string `json:"description" db:"description"`
	Quantity       int64  `json:"quantity" db:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor" db:"unit_price_minor"`
	AmountMinor    int64  `json:"amount_minor" db:"amount_minor"`
}

// Payment is an immutable append-only entry against an issued invoice.
//
// Money invariant: the outstanding projection changes only alongside a
// payment insert, inside one transaction.
type Payment struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`
	InvoiceID   string `json:"invoice_id" db:"invoice_id"`

	AmountMinor int64  `json:"amount_minor" db:"amount_minor"`
	Currency    string `json:"currency" db:"currency"`

	// ExternalRef is optional: bank statement line, PSP charge id, etc.
	ExternalRef string `json:"external_ref,omitempty" db:"external_ref"`

	// IdempotencyKey is required for safe retries of payment posting.
	IdempotencyKey string `json:"idempotency_key" db:"idempotency_key"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Outstanding is the balance projection for an issued invoice.
type Outstanding struct {
	WorkspaceID      string    `json:"workspace_id" db:"workspace_id"`
	InvoiceID        string    `json:"invoice_id" db:"invoice_id"`
	OutstandingMinor int64     `json:"outstanding_minor" db:"outstanding_minor"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
