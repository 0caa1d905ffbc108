package agreements

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following table exists:
//
//	agreements (
//	  id TEXT PRIMARY KEY,
//	  workspace_id TEXT NOT NULL,
//	  client_id TEXT NOT NULL,
//	  proposal_id TEXT NOT NULL,
//	  title TEXT NOT NULL,
//	  terms TEXT NOT NULL,
//	  currency TEXT NOT NULL,
//	  value_minor BIGINT NOT NULL,
//	  effective_from TIMESTAMPTZ NOT NULL,
//	  effective_to TIMESTAMPTZ NULL,
//	  status TEXT NOT NULL,
//	  terminated_at TIMESTAMPTZ NULL,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL,
//	  UNIQUE (workspace_id, proposal_id)
//	)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const agreementColumns = `id, workspace_id, client_id, proposal_id, title, terms, currency, value_minor, effective_from, effective_to, status, terminated_at, created_at, updated_at`

func scanAgreement(scan func(dest ...any) error) (Agreement, error) {
	var a Agreement
	err := scan(
		&a.ID,
		&a.WorkspaceID,
		&a.ClientID,
		&a.ProposalID,
		&a.Title,
		&a.Terms,
		&a.Currency,
		&a.ValueMinor,
		&a.EffectiveFrom,
		&a.EffectiveTo,
		&a.Status,
		&a.TerminatedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Agreement{}, ErrNotFound
		}
		return Agreement{}, err
	}
	return a, nil
}

func (r *PostgresRepo) Create(ctx context.Context, a Agreement) error {
	const q = `
INSERT INTO agreements (` + agreementColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`
	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.WorkspaceID,
		a.ClientID,
		a.ProposalID,
		a.Title,
		a.Terms,
		a.Currency,
		a.ValueMinor,
		a.EffectiveFrom,
		a.EffectiveTo,
		a.Status,
		a.TerminatedAt,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, workspaceID, id string) (Agreement, error) {
	const q = `SELECT ` + agreementColumns + ` FROM agreements WHERE workspace_id = $1 AND id = $2`
	return scanAgreement(r.db.QueryRowContext(ctx, q, workspaceID, id).Scan)
}

func (r *PostgresRepo) GetByProposal(ctx context.Context, workspaceID, proposalID string) (Agreement, bool, error) {
	const q = `SELECT ` + agreementColumns + ` FROM agreements WHERE workspace_id = $1 AND proposal_id = $2`
	a, err := scanAgreement(r.db.QueryRowContext(ctx, q, workspaceID, proposalID).Scan)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Agreement{}, false, nil
		}
		return Agreement{}, false, err
	}
	return a, true, nil
}

func (r *PostgresRepo) List(ctx context.Context, workspaceID string) ([]Agreement, error) {
	const q = `SELECT ` + agreementColumns + ` FROM agreements WHERE workspace_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Agreement
	for rows.Next() {
		a, err := scanAgreement(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, a Agreement) error {
	const q = `
UPDATE agreements
SET terms = $3, effective_to = $4, status = $5, terminated_at = $6, updated_at = $7
WHERE workspace_id = $1 AND id = $2
`
	res, err := r.db.ExecContext(ctx, q,
		a.WorkspaceID,
		a.ID,
		a.Terms,
		a.EffectiveTo,
		a.Status,
		a.TerminatedAt,
		a.UpdatedAt,
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
