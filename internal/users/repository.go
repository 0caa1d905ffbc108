package users

import (
	"context"
	"database/sql"
	"errors"

	"crm-platform/internal/auth"

	"github.com/jackc/pgx/v5/pgconn"
)

// NOTE: This repository assumes the following table exists:
//
//	users (
//	  id TEXT PRIMARY KEY,
//	  workspace_id TEXT NOT NULL,
//	  email TEXT NOT NULL UNIQUE,
//	  full_name TEXT NOT NULL DEFAULT '',
//	  password_hash TEXT NOT NULL,
//	  role TEXT NOT NULL,
//	  status TEXT NOT NULL DEFAULT 'active',
//	  current_refresh_token TEXT NULL,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	)
//
// Email is unique across all workspaces, not per workspace: login identifies
// the principal by email alone, so a second account with the same address
// would make credential resolution ambiguous.
//
// It doubles as the auth.PrincipalStore: the auth subsystem reads users and
// writes exactly one column, current_refresh_token.

// PostgresRepo persists users and implements auth.PrincipalStore.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const userColumns = `id, workspace_id, email, full_name, password_hash, role, status, current_refresh_token, created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.WorkspaceID,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.CurrentRefreshToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) Create(ctx context.Context, u User) error {
	const q = `
INSERT INTO users (` + userColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`
	_, err := r.db.ExecContext(ctx, q,
		u.ID,
		u.WorkspaceID,
		u.Email,
		u.FullName,
		u.PasswordHash,
		u.Role,
		u.Status,
		u.CurrentRefreshToken,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

// isUniqueViolation matches SQLSTATE 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

func (r *PostgresRepo) List(ctx context.Context, workspaceID string) ([]User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE workspace_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID,
			&u.WorkspaceID,
			&u.Email,
			&u.FullName,
			&u.PasswordHash,
			&u.Role,
			&u.Status,
			&u.CurrentRefreshToken,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, u User) error {
	const q = `
UPDATE users
SET full_name = $2, role = $3, status = $4, updated_at = $5
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, u.ID, u.FullName, u.Role, u.Status, u.UpdatedAt)
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

/* ===================== auth.PrincipalStore ===================== */

func (r *PostgresRepo) GetPrincipalByID(ctx context.Context, id string) (auth.Principal, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Principal{}, auth.ErrPrincipalNotFound
		}
		return auth.Principal{}, err
	}
	return toPrincipal(u), nil
}

func (r *PostgresRepo) GetPrincipalByEmail(ctx context.Context, email string) (auth.Principal, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Principal{}, auth.ErrPrincipalNotFound
		}
		return auth.Principal{}, err
	}
	return toPrincipal(u), nil
}

func (r *PostgresRepo) SetCurrentRefreshToken(ctx context.Context, id string, token *string) error {
	const q = `UPDATE users SET current_refresh_token = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrPrincipalNotFound
	}
	return nil
}

// SwapCurrentRefreshToken is the atomic compare-and-swap behind refresh
// rotation. IS NOT DISTINCT FROM gives exact equality with NULL treated as a
// comparable value, so "chain revoked" (NULL) only matches an expected nil.
// Under concurrent renewals the row update serializes in Postgres; losers see
// zero rows affected.
func (r *PostgresRepo) SwapCurrentRefreshToken(ctx context.Context, id string, expectedOld, next *string) (bool, error) {
	const q = `
UPDATE users
SET current_refresh_token = $3, updated_at = now()
WHERE id = $1 AND current_refresh_token IS NOT DISTINCT FROM $2
`
	res, err := r.db.ExecContext(ctx, q, id, expectedOld, next)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	// Distinguish "value mismatch" from "no such principal".
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, auth.ErrPrincipalNotFound
	}
	return false, nil
}

func toPrincipal(u User) auth.Principal {
	return auth.Principal{
		ID:                  u.ID,
		WorkspaceID:         u.WorkspaceID,
		Email:               u.Email,
		PasswordHash:        u.PasswordHash,
		Role:                u.Role,
		CurrentRefreshToken: u.CurrentRefreshToken,
		Disabled:            u.IsDisabled(),
	}
}
