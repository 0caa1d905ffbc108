package auth

import "github.com/golang-jwt/jwt/v5"

type TokenUse string

const (
	TokenUseAccess  TokenUse = "access"
	TokenUseRefresh TokenUse = "refresh"
)

// AccessClaims is the only supported shape for access tokens. Access tokens
// are self-verifying: signature + expiry is the whole check, no store lookup.
// They cannot be revoked before natural expiry; revocation only blocks future
// renewals. Keep the TTL short for that reason.
type AccessClaims struct {
	jwt.RegisteredClaims

	UserID      string   `json:"user_id"`
	WorkspaceID string   `json:"workspace_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	TokenUse    TokenUse `json:"token_use"`
}

// RefreshClaims carry the user id only. Email and role are deliberately
// absent: they are re-read from the principal store at renewal time, so a
// role change after login is reflected in the next access token.
type RefreshClaims struct {
	jwt.RegisteredClaims

	UserID   string   `json:"user_id"`
	TokenUse TokenUse `json:"token_use"`
}
