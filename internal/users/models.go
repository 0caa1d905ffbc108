package users

import "time"

// User is a tenant-scoped account row.
//
// Multi-tenant invariant: WorkspaceID is required on every row. Email is
// globally unique because login resolves the principal by email alone.
//
// CurrentRefreshToken is owned by the auth subsystem: it holds the encoded
// string of the most recently issued refresh token, or NULL once the session
// chain is revoked. At most one live value exists at a time.
type User struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	Email    string `json:"email" db:"email"`
	FullName string `json:"full_name" db:"full_name"`

	// PasswordHash is never serialized.
	PasswordHash string `json:"-" db:"password_hash"`

	Role   string     `json:"role" db:"role"`
	Status UserStatus `json:"status" db:"status"`

	CurrentRefreshToken *string `json:"-" db:"current_refresh_token"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

func (u User) IsDisabled() bool { return u.Status == UserStatusDisabled }
