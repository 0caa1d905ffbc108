package auth

import "context"

// Principal is the token subsystem's view of a user. The store owns the full
// row; this subsystem reads it and writes exactly one field,
// CurrentRefreshToken.
type Principal struct {
	ID           string
	WorkspaceID  string
	Email        string
	PasswordHash string
	Role         string

	// CurrentRefreshToken holds the encoded string of the most recently
	// issued refresh token, or nil when the chain is revoked. It is the sole
	// source of truth for refresh validity: signature + expiry alone is
	// necessary but not sufficient.
	CurrentRefreshToken *string

	Disabled bool
}

// PrincipalStore is the persistence boundary of the token subsystem.
//
// The store is the sole arbiter of truth under concurrency: no in-process
// locks are taken, so SwapCurrentRefreshToken must be atomic
// (compare-and-swap) for rotation to be race-free.
type PrincipalStore interface {
	GetPrincipalByID(ctx context.Context, id string) (Principal, error)
	GetPrincipalByEmail(ctx context.Context, email string) (Principal, error)

	// SetCurrentRefreshToken unconditionally overwrites the stored token.
	// nil clears the chain (revocation).
	SetCurrentRefreshToken(ctx context.Context, id string, token *string) error

	// SwapCurrentRefreshToken writes next only if the stored value equals
	// expectedOld (exact string equality; nil means "revoked"). Returns
	// false, nil when the comparison fails, so concurrent rotations lose
	// deterministically instead of silently shadowing each other.
	SwapCurrentRefreshToken(ctx context.Context, id string, expectedOld, next *string) (bool, error)
}
