package expenses

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following table exists:
//
//	expenses (
//	  id TEXT PRIMARY KEY,
//	  workspace_id TEXT NOT NULL,
//	  date TIMESTAMPTZ NOT NULL,
//	  category TEXT NOT NULL,
//	  description TEXT NOT NULL DEFAULT '',
//	  amount_minor BIGINT NOT NULL,
//	  currency TEXT NOT NULL,
//	  receipt_document_id TEXT NOT NULL DEFAULT '',
//	  created_at TIMESTAMPTZ NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const expenseColumns = `id, workspace_id, date, category, description, amount_minor, currency, receipt_document_id, created_at, updated_at`

func scanExpense(scan func(dest ...any) error) (Expense, error) {
	var e Expense
	err := scan(
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
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Expense{}, ErrNotFound
		}
		return Expense{}, err
	}
	return e, nil
}

func (r *PostgresRepo) Create(ctx context.Context, e Expense) error {
	const q = `
INSERT INTO expenses (` + expenseColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.WorkspaceID,
		e.Date,
		e.Category,
		e.Description,
		e.AmountMinor,
		e.Currency,
		e.ReceiptDocumentID,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, workspaceID, id string) (Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses WHERE workspace_id = $1 AND id = $2`
	return scanExpense(r.db.QueryRowContext(ctx, q, workspaceID, id).Scan)
}

// List applies the date range half-open: from inclusive, to exclusive.
func (r *PostgresRepo) List(ctx context.Context, workspaceID string, f ListFilter) ([]Expense, error) {
	const q = `
SELECT ` + expenseColumns + `
FROM expenses
WHERE workspace_id = $1
  AND ($2 = '' OR category = $2)
  AND ($3::timestamptz IS NULL OR date >= $3)
  AND ($4::timestamptz IS NULL OR date < $4)
ORDER BY date DESC
`
	var from, to any
	if !f.From.IsZero() {
		from = f.From
	}
	if !f.To.IsZero() {
		to = f.To
	}
	rows, err := r.db.QueryContext(ctx, q, workspaceID, f.Category, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, e Expense) error {
	const q = `
UPDATE expenses
SET date = $3, category = $4, description = $5, amount_minor = $6,
    currency = $7, receipt_document_id = $8, updated_at = $9
WHERE workspace_id = $1 AND id = $2
`
	res, err := r.db.ExecContext(ctx, q,
		e.WorkspaceID,
		e.ID,
		e.Date,
		e.Category,
		e.Description,
		e.AmountMinor,
		e.Currency,
		e.ReceiptDocumentID,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
