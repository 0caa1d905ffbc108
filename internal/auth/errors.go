package auth

import "errors"

// Caller-visible failure taxonomy for the token lifecycle.
//
// ErrTokenInvalid deliberately collapses malformed, expired, and
// bad-signature cases; distinguishing them would hand an oracle to an
// attacker probing stolen tokens. ErrRefreshFailed covers a refresh token
// that verified cryptographically but no longer matches the stored chain
// (superseded or revoked). Transports should map both to the same 401.
var (
	// ErrInvalidCredentials is returned by Login only.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrTokenInvalid covers malformed, expired, or wrongly signed tokens.
	ErrTokenInvalid = errors.New("auth: token invalid")

	// ErrRefreshFailed means re-authentication is required. Not retried.
	ErrRefreshFailed = errors.New("auth: refresh failed")

	// ErrStoreUnavailable means the principal store timed out or errored.
	// Never silently treated as success.
	ErrStoreUnavailable = errors.New("auth: principal store unavailable")

	// ErrPrincipalNotFound is the store-boundary miss; session-level code
	// converts it to ErrInvalidCredentials or ErrRefreshFailed.
	ErrPrincipalNotFound = errors.New("auth: principal not found")
)
