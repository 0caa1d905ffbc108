package reporting

import (
	"context"
	"database/sql"
	"time"

	"crm-platform/internal/expenses"
	"crm-platform/internal/invoices"
)

// PostgresRepo reads the invoice, payment, balance and expense tables owned
// by the invoices and expenses repositories. Reporting never writes.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// ListPayments returns payments created in [from, to).
func (r *PostgresRepo) ListPayments(ctx context.Context, workspaceID string, from, to time.Time) ([]invoices.Payment, error) {
	const q = `
SELECT id, workspace_id, invoice_id, amount_minor, currency, external_ref, idempotency_key, created_at
FROM invoice_payments
WHERE workspace_id = $1 AND created_at >= $2 AND created_at < $3
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q, workspaceID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []invoices.Payment
	for rows.Next() {
		var p invoices.Payment
		if err := rows.Scan(
			&p.ID,
			&p.WorkspaceID,
			&p.InvoiceID,
			&p.AmountMinor,
			&p.Currency,
			&p.ExternalRef,
			&p.IdempotencyKey,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListIssuedInvoices(ctx context.Context, workspaceID string) ([]invoices.Invoice, error) {
	const q = `
SELECT id, workspace_id, client_id, number, currency, tax_region,
       subtotal_minor, tax_minor, total_minor, status, issued_at, due_date,
       created_at, updated_at
FROM invoices
WHERE workspace_id = $1 AND status = $2
`
	rows, err := r.db.QueryContext(ctx, q, workspaceID, invoices.InvoiceStatusIssued)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []invoices.Invoice
	for rows.Next() {
		var (
			inv    invoices.Invoice
			number sql.NullString
		)
		if err := rows.Scan(
			&inv.ID,
			&inv.WorkspaceID,
			&inv.ClientID,
			&number,
			&inv.Currency,
			&inv.TaxRegion,
			&inv.SubtotalMinor,
			&inv.TaxMinor,
			&inv.TotalMinor,
			&inv.Status,
			&inv.IssuedAt,
			&inv.DueDate,
			&inv.CreatedAt,
			&inv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		inv.Number = number.String
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListOutstanding(ctx context.Context, workspaceID string) ([]invoices.Outstanding, error) {
	const q = `
SELECT workspace_id, invoice_id, outstanding_minor, updated_at
FROM invoice_balances
WHERE workspace_id = $1
`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []invoices.Outstanding
	for rows.Next() {
		var b invoices.Outstanding
		if err := rows.Scan(&b.WorkspaceID, &b.InvoiceID, &b.OutstandingMinor, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListExpenses returns expenses dated in [from, to).
func (r *PostgresRepo) ListExpenses(ctx context.Context, workspaceID string, from, to time.Time) ([]expenses.Expense, error) {
	const q = `
SELECT id, workspace_id, date, category, description, amount_minor, currency, receipt_document_id, created_at, updated_at
FROM expenses
WHERE workspace_id = $1 AND date >= $2 AND date < $3
ORDER BY date
`
	rows, err := r.db.QueryContext(ctx, q, workspaceID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []expenses.Expense
	for rows.Next() {
		var e expenses.Expense
		if err := rows.Scan(
			&e.ID,
			&e.WorkspaceID,
			&e.Date,
			&e.Category,
			&e.Description,
			&e.AmountMinor,
			&e.Currency,
			&e.ReceiptDocumentID,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
