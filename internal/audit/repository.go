package audit

import (
	"context"
	"database/sql"
)

// NOTE: This repository assumes the following table exists:
//
//	audit_events (
//	  id TEXT PRIMARY KEY,
//	  workspace_id TEXT NOT NULL,
//	  type TEXT NOT NULL,
//	  actor_user_id TEXT NOT NULL DEFAULT '',
//	  actor_role TEXT NOT NULL DEFAULT '',
//	  ip_address TEXT NOT NULL DEFAULT '',
//	  target_user_id TEXT NOT NULL DEFAULT '',
//	  invoice_id TEXT NOT NULL DEFAULT '',
//	  message TEXT NOT NULL DEFAULT '',
//	  metadata TEXT NOT NULL DEFAULT '',
//	  created_at TIMESTAMPTZ NOT NULL
//	)
//
// The table is insert-only. No update or delete methods exist on purpose.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, workspace_id, type, actor_user_id, actor_role, ip_address, target_user_id, invoice_id, message, metadata, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.WorkspaceID,
		e.Type,
		e.ActorUserID,
		e.ActorRole,
		e.IPAddress,
		e.TargetUserID,
		e.InvoiceID,
		e.Message,
		e.Metadata,
		e.CreatedAt,
	)
	return err
}
