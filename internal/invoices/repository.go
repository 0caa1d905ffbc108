package invoices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// NOTE: This repository assumes the following tables exist:
// - invoices
// - invoice_line_items
// - invoice_payments (immutable append-only)
// - invoice_balances (outstanding projection)
// - invoice_counters (per-workspace number sequence)
//
// It also assumes an idempotency constraint, e.g.:
// UNIQUE (invoice_id, idempotency_key) on invoice_payments

const invoiceColumns = `id, workspace_id, client_id, number, currency, tax_region,
       subtotal_minor, tax_minor, total_minor, status, issued_at, due_date, created_at, updated_at`

func scanInvoice(scan func(dest ...any) error) (Invoice, error) {
	var inv Invoice
	var number sql.NullString
	err := scan(
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
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}
	inv.Number = number.String
	return inv, nil
}

func getInvoice(ctx context.Context, db *sql.DB, workspaceID, invoiceID string) (Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE workspace_id = $1 AND id = $2`
	return scanInvoice(db.QueryRowContext(ctx, q, workspaceID, invoiceID).Scan)
}

func lockInvoice(ctx context.Context, tx *sql.Tx, workspaceID, invoiceID string) (Invoice, error) {
	// Lock the invoice row to serialize concurrent money operations per invoice.
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE workspace_id = $1 AND id = $2 FOR UPDATE`
	return scanInvoice(tx.QueryRowContext(ctx, q, workspaceID, invoiceID).Scan)
}

func insertInvoice(ctx context.Context, db *sql.DB, inv Invoice) error {
	const q = `
INSERT INTO invoices (` + invoiceColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`
	var number *string
	if inv.Number != "" {
		number = &inv.Number
	}
	_, err := db.ExecContext(ctx, q,
		inv.ID,
		inv.WorkspaceID,
		inv.ClientID,
		number,
		inv.Currency,
		inv.TaxRegion,
		inv.SubtotalMinor,
		inv.TaxMinor,
		inv.TotalMinor,
		inv.Status,
		inv.IssuedAt,
		inv.DueDate,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	return err
}

func insertLineItems(ctx context.Context, db *sql.DB, lines []LineItem) error {
	const q = `
INSERT INTO invoice_line_items (
  id, workspace_id, invoice_id, position, description, quantity, unit_price_minor, amount_minor
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`
	for _, l := range lines {
		if _, err := db.ExecContext(ctx, q,
			l.ID,
			l.WorkspaceID,
			l.InvoiceID,
			l.Position,
			l.Description,
			l.Quantity,
			l.UnitPriceMinor,
			l.AmountMinor,
		); err != nil {
			return err
		}
	}
	return nil
}

func getLineItems(ctx context.Context, db *sql.DB, workspaceID, invoiceID string) ([]LineItem, error) {
	const q = `
SELECT id, workspace_id, invoice_id, position, description, quantity, unit_price_minor, amount_minor
FROM invoice_line_items
WHERE workspace_id = $1 AND invoice_id = $2
ORDER BY position
`
	rows, err := db.QueryContext(ctx, q, workspaceID, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineItem
	for rows.Next() {
		var l LineItem
		if err := rows.Scan(
			&l.ID,
			&l.WorkspaceID,
			&l.InvoiceID,
			&l.Position,
			&l.Description,
			&l.Quantity,
			&l.UnitPriceMinor,
			&l.AmountMinor,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func listInvoices(ctx context.Context, db *sql.DB, workspaceID string, status InvoiceStatus) ([]Invoice, error) {
	const q = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE workspace_id = $1 AND ($2 = '' OR status = $2)
ORDER BY created_at DESC
`
	rows, err := db.QueryContext(ctx, q, workspaceID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// nextInvoiceNumber increments the workspace sequence and returns the new
// value. The upsert serializes concurrent issuers on the counter row.
func nextInvoiceNumber(ctx context.Context, tx *sql.Tx, workspaceID string) (string, error) {
	const q = `
INSERT INTO invoice_counters (workspace_id, last_value)
VALUES ($1, 1)
ON CONFLICT (workspace_id)
DO UPDATE SET last_value = invoice_counters.last_value + 1
RETURNING last_value
`
	var n int64
	if err := tx.QueryRowContext(ctx, q, workspaceID).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%06d", n), nil
}

func markIssued(ctx context.Context, tx *sql.Tx, inv Invoice) error {
	const q = `
UPDATE invoices
SET number = $3, subtotal_minor = $4, tax_minor = $5, total_minor = $6,
    status = $7, issued_at = $8, due_date = $9, updated_at = $10
WHERE workspace_id = $1 AND id = $2
`
	_, err := tx.ExecContext(ctx, q,
		inv.WorkspaceID,
		inv.ID,
		inv.Number,
		inv.SubtotalMinor,
		inv.TaxMinor,
		inv.TotalMinor,
		inv.Status,
		inv.IssuedAt,
		inv.DueDate,
		inv.UpdatedAt,
	)
	return err
}

func updateStatus(ctx context.Context, tx *sql.Tx, workspaceID, invoiceID string, status InvoiceStatus, now time.Time) error {
	const q = `UPDATE invoices SET status = $3, updated_at = $4 WHERE workspace_id = $1 AND id = $2`
	_, err := tx.ExecContext(ctx, q, workspaceID, invoiceID, status, now)
	return err
}

func findPaymentByIdempotency(ctx context.Context, tx *sql.Tx, workspaceID, invoiceID, key string) (Payment, bool, error) {
	const q = `
SELECT id, workspace_id, invoice_id, amount_minor, currency, external_ref, idempotency_key, created_at
FROM invoice_payments
WHERE workspace_id = $1 AND invoice_id = $2 AND idempotency_key = $3
LIMIT 1
`
	var p Payment
	err := tx.QueryRowContext(ctx, q, workspaceID, invoiceID, key).Scan(
		&p.ID,
		&p.WorkspaceID,
		&p.InvoiceID,
		&p.AmountMinor,
		&p.Currency,
		&p.ExternalRef,
		&p.IdempotencyKey,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Payment{}, false, nil
		}
		return Payment{}, false, err
	}
	return p, true, nil
}

func insertPayment(ctx context.Context, tx *sql.Tx, p Payment) error {
	const q = `
INSERT INTO invoice_payments (
  id, workspace_id, invoice_id, amount_minor, currency, external_ref, idempotency_key, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`
	_, err := tx.ExecContext(ctx, q,
		p.ID,
		p.WorkspaceID,
		p.InvoiceID,
		p.AmountMinor,
		p.Currency,
		p.ExternalRef,
		p.IdempotencyKey,
		p.CreatedAt,
	)
	return err
}

func listPayments(ctx context.Context, db *sql.DB, workspaceID, invoiceID string) ([]Payment, error) {
	const q = `
SELECT id, workspace_id, invoice_id, amount_minor, currency, external_ref, idempotency_key, created_at
FROM invoice_payments
WHERE workspace_id = $1 AND invoice_id = $2
ORDER BY created_at
`
	rows, err := db.QueryContext(ctx, q, workspaceID, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
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

func setOutstanding(ctx context.Context, tx *sql.Tx, workspaceID, invoiceID string, amountMinor int64, now time.Time) error {
	const q = `
INSERT INTO invoice_balances (workspace_id, invoice_id, outstanding_minor, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (workspace_id, invoice_id)
DO UPDATE SET outstanding_minor = EXCLUDED.outstanding_minor, updated_at = EXCLUDED.updated_at
`
	_, err := tx.ExecContext(ctx, q, workspaceID, invoiceID, amountMinor, now)
	return err
}

func getOutstandingForUpdate(ctx context.Context, tx *sql.Tx, workspaceID, invoiceID string) (Outstanding, error) {
	const q = `
SELECT workspace_id, invoice_id, outstanding_minor, updated_at
FROM invoice_balances
WHERE workspace_id = $1 AND invoice_id = $2
FOR UPDATE
`
	var o Outstanding
	if err := tx.QueryRowContext(ctx, q, workspaceID, invoiceID).Scan(
		&o.WorkspaceID,
		&o.InvoiceID,
		&o.OutstandingMinor,
		&o.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Outstanding{}, ErrNotFound
		}
		return Outstanding{}, err
	}
	return o, nil
}

func applyOutstandingDelta(ctx context.Context, tx *sql.Tx, workspaceID, invoiceID string, deltaMinor int64, now time.Time) (Outstanding, error) {
	const q = `
UPDATE invoice_balances
SET outstanding_minor = outstanding_minor + $3, updated_at = $4
WHERE workspace_id = $1 AND invoice_id = $2
RETURNING workspace_id, invoice_id, outstanding_minor, updated_at
`
	var o Outstanding
	if err := tx.QueryRowContext(ctx, q, workspaceID, invoiceID, deltaMinor, now).Scan(
		&o.WorkspaceID,
		&o.InvoiceID,
		&o.OutstandingMinor,
		&o.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Outstanding{}, ErrNotFound
		}
		return Outstanding{}, err
	}
	return o, nil
}
