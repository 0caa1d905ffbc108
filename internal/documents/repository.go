package documents

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following table exists:
//
//	documents (
//	  id TEXT PRIMARY KEY,
//	  workspace_id TEXT NOT NULL,
//	  name TEXT NOT NULL,
//	  content_type TEXT NOT NULL,
//	  size_bytes BIGINT NOT NULL,
//	  storage_key TEXT NOT NULL,
//	  owner_entity TEXT NOT NULL DEFAULT '',
//	  uploaded_by TEXT NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL
//	)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const documentColumns = `id, workspace_id, name, content_type, size_bytes, storage_key, owner_entity, uploaded_by, created_at`

func scanDocument(scan func(dest ...any) error) (Document, error) {
	var d Document
	err := scan(
		&d.ID,
		&d.WorkspaceID,
		&d.Name,
		&d.ContentType,
		&d.SizeBytes,
		&d.StorageKey,
		&d.OwnerEntity,
		&d.UploadedBy,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return d, nil
}

func (r *PostgresRepo) Create(ctx context.Context, d Document) error {
	const q = `
INSERT INTO documents (` + documentColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := r.db.ExecContext(ctx, q,
		d.ID,
		d.WorkspaceID,
		d.Name,
		d.ContentType,
		d.SizeBytes,
		d.StorageKey,
		d.OwnerEntity,
		d.UploadedBy,
		d.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, workspaceID, id string) (Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE workspace_id = $1 AND id = $2`
	return scanDocument(r.db.QueryRowContext(ctx, q, workspaceID, id).Scan)
}

func (r *PostgresRepo) List(ctx context.Context, workspaceID string) ([]Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE workspace_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
