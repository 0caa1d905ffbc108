package proposals

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// NOTE: This repository assumes the following table exists:
//
//	proposals (
//	  id TEXT PRIMARY KEY,
//	  workspace_id TEXT NOT NULL,
//	  client_id TEXT NOT NULL,
//	  title TEXT NOT NULL,
//	  currency TEXT NOT NULL,
//	  lines JSONB NOT NULL,
//	  total_minor BIGINT NOT NULL,
//	  status TEXT NOT NULL,
//	  valid_until TIMESTAMPTZ NULL,
//	  sent_at TIMESTAMPTZ NULL,
//	  decided_at TIMESTAMPTZ NULL,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	)
//
// Lines are immutable once the proposal leaves draft, so a JSONB column is
// enough; nothing queries into individual lines.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const proposalColumns = `id, workspace_id, client_id, title, currency, lines, total_minor, status, valid_until, sent_at, decided_at, created_at, updated_at`

func scanProposal(scan func(dest ...any) error) (Proposal, error) {
	var (
		p        Proposal
		rawLines []byte
	)
	err := scan(
		&p.ID,
		&p.WorkspaceID,
		&p.ClientID,
		&p.Title,
		&p.Currency,
		&rawLines,
		&p.TotalMinor,
		&p.Status,
		&p.ValidUntil,
		&p.SentAt,
		&p.DecidedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Proposal{}, ErrNotFound
		}
		return Proposal{}, err
	}
	if err := json.Unmarshal(rawLines, &p.Lines); err != nil {
		return Proposal{}, err
	}
	return p, nil
}

func (r *PostgresRepo) Create(ctx context.Context, p Proposal) error {
	rawLines, err := json.Marshal(p.Lines)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO proposals (` + proposalColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`
	_, err = r.db.ExecContext(ctx, q,
		p.ID,
		p.WorkspaceID,
		p.ClientID,
		p.Title,
		p.Currency,
		rawLines,
		p.TotalMinor,
		p.Status,
		p.ValidUntil,
		p.SentAt,
		p.DecidedAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, workspaceID, id string) (Proposal, error) {
	const q = `SELECT ` + proposalColumns + ` FROM proposals WHERE workspace_id = $1 AND id = $2`
	return scanProposal(r.db.QueryRowContext(ctx, q, workspaceID, id).Scan)
}

func (r *PostgresRepo) List(ctx context.Context, workspaceID string) ([]Proposal, error) {
	const q = `SELECT ` + proposalColumns + ` FROM proposals WHERE workspace_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Proposal
	for rows.Next() {
		p, err := scanProposal(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, p Proposal) error {
	const q = `
UPDATE proposals
SET status = $3, valid_until = $4, sent_at = $5, decided_at = $6, updated_at = $7
WHERE workspace_id = $1 AND id = $2
`
	res, err := r.db.ExecContext(ctx, q,
		p.WorkspaceID,
		p.ID,
		p.Status,
		p.ValidUntil,
		p.SentAt,
		p.DecidedAt,
		p.UpdatedAt,
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
