package taxes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// NOTE: This repository assumes the following table exists:
//
//	tax_rates (
//	  id TEXT PRIMARY KEY,
//	  workspace_id TEXT NOT NULL,
//	  region TEXT NOT NULL,
//	  name TEXT NOT NULL DEFAULT '',
//	  rate_bps BIGINT NOT NULL,
//	  effective_from TIMESTAMPTZ NOT NULL,
//	  effective_to TIMESTAMPTZ NULL,
//	  status TEXT NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const rateColumns = `id, workspace_id, region, name, rate_bps, effective_from, effective_to, status, created_at, updated_at`

func scanRate(scan func(dest ...any) error) (TaxRate, error) {
	var t TaxRate
	err := scan(
		&t.ID,
		&t.WorkspaceID,
		&t.Region,
		&t.Name,
		&t.RateBps,
		&t.EffectiveFrom,
		&t.EffectiveTo,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return TaxRate{}, err
	}
	return t, nil
}

func (r *PostgresRepo) Create(ctx context.Context, rate TaxRate) error {
	const q = `
INSERT INTO tax_rates (` + rateColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`
	_, err := r.db.ExecContext(ctx, q,
		rate.ID,
		rate.WorkspaceID,
		rate.Region,
		rate.Name,
		rate.RateBps,
		rate.EffectiveFrom,
		rate.EffectiveTo,
		rate.Status,
		rate.CreatedAt,
		rate.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) List(ctx context.Context, workspaceID string) ([]TaxRate, error) {
	const q = `SELECT ` + rateColumns + ` FROM tax_rates WHERE workspace_id = $1 ORDER BY region, effective_from DESC`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaxRate
	for rows.Next() {
		t, err := scanRate(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// FindEffectiveRate returns the active rate whose window covers the instant.
// Windows are half-open: effective_from inclusive, effective_to exclusive.
// When windows overlap, the row with the latest effective_from wins.
func (r *PostgresRepo) FindEffectiveRate(ctx context.Context, workspaceID, region string, at time.Time) (TaxRate, bool, error) {
	const q = `
SELECT ` + rateColumns + `
FROM tax_rates
WHERE workspace_id = $1
  AND region = $2
  AND status = $3
  AND effective_from <= $4
  AND (effective_to IS NULL OR effective_to > $4)
ORDER BY effective_from DESC
LIMIT 1
`
	t, err := scanRate(r.db.QueryRowContext(ctx, q, workspaceID, region, RateStatusActive, at).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TaxRate{}, false, nil
		}
		return TaxRate{}, false, err
	}
	return t, true, nil
}
