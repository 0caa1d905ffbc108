package clients

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following table exists:
//
//	clients (
//	  id TEXT PRIMARY KEY,
//	  workspace_id TEXT NOT NULL,
//	  name TEXT NOT NULL,
//	  contact_person TEXT NOT NULL DEFAULT '',
//	  email TEXT NOT NULL DEFAULT '',
//	  phone TEXT NOT NULL DEFAULT '',
//	  billing_address TEXT NOT NULL DEFAULT '',
//	  notes TEXT NOT NULL DEFAULT '',
//	  archived BOOLEAN NOT NULL DEFAULT FALSE,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const clientColumns = `id, workspace_id, name, contact_person, email, phone, billing_address, notes, archived, created_at, updated_at`

func scanClient(scan func(dest ...any) error) (Client, error) {
	var c Client
	err := scan(
		&c.ID,
		&c.WorkspaceID,
		&c.Name,
		&c.ContactPerson,
		&c.Email,
		&c.Phone,
		&c.BillingAddress,
		&c.Notes,
		&c.Archived,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return c, nil
}

func (r *PostgresRepo) Create(ctx context.Context, c Client) error {
	const q = `
INSERT INTO clients (` + clientColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`
	_, err := r.db.ExecContext(ctx, q,
		c.ID,
		c.WorkspaceID,
		c.Name,
		c.ContactPerson,
		c.Email,
		c.Phone,
		c.BillingAddress,
		c.Notes,
		c.Archived,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, workspaceID, id string) (Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE workspace_id = $1 AND id = $2`
	return scanClient(r.db.QueryRowContext(ctx, q, workspaceID, id).Scan)
}

func (r *PostgresRepo) List(ctx context.Context, workspaceID string, f ListFilter) ([]Client, error) {
	const q = `
SELECT ` + clientColumns + `
FROM clients
WHERE workspace_id = $1
  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
  AND (archived = FALSE OR $3)
ORDER BY name
`
	rows, err := r.db.QueryContext(ctx, q, workspaceID, f.NameQuery, f.IncludeArchived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, c Client) error {
	const q = `
UPDATE clients
SET name = $3, contact_person = $4, email = $5, phone = $6,
    billing_address = $7, notes = $8, archived = $9, updated_at = $10
WHERE workspace_id = $1 AND id = $2
`
	res, err := r.db.ExecContext(ctx, q,
		c.WorkspaceID,
		c.ID,
		c.Name,
		c.ContactPerson,
		c.Email,
		c.Phone,
		c.BillingAddress,
		c.Notes,
		c.Archived,
		c.UpdatedAt,
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
