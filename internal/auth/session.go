package auth

import (
	"context"
	"errors"
	"time"
)

const defaultStoreTimeout = 3 * time.Second

// TokenPair is what the transport layer puts into cookies.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Sessions implements the token lifecycle: issue at login, renew when the
// access token has expired, revoke at logout.
//
// Invariants:
//   - At most one refresh token string is valid per principal: the one stored
//     as CurrentRefreshToken. Issuing supersedes any prior chain.
//   - Access tokens are self-verifying and cannot be revoked individually;
//     revocation only blocks future renewals.
//
// Stateless per call; all mutable truth lives in the PrincipalStore, so
// handler processes scale horizontally.
type Sessions struct {
	codec *Codec
	store PrincipalStore

	// rotate issues a successor refresh token on every renewal, invalidating
	// the presented one via compare-and-swap on the stored value.
	rotate bool

	storeTimeout time.Duration
	clock        func() time.Time
}

type SessionsOption func(*Sessions)

// WithRotation toggles refresh-token rotation on renewal.
func WithRotation(on bool) SessionsOption {
	return func(s *Sessions) { s.rotate = on }
}

// WithStoreTimeout bounds every principal-store call.
func WithStoreTimeout(d time.Duration) SessionsOption {
	return func(s *Sessions) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// WithClock is injectable for deterministic tests.
func WithClock(clock func() time.Time) SessionsOption {
	return func(s *Sessions) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewSessions(codec *Codec, store PrincipalStore, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		codec:        codec,
		store:        store,
		rotate:       true,
		storeTimeout: defaultStoreTimeout,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies credentials and issues a fresh session. All credential
// failures (unknown email, disabled account, wrong password) collapse to
// ErrInvalidCredentials.
func (s *Sessions) Login(ctx context.Context, email, password string) (Principal, TokenPair, error) {
	storeCtx, cancel := s.storeContext(ctx)
	p, err := s.store.GetPrincipalByEmail(storeCtx, email)
	cancel()
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return Principal{}, TokenPair{}, ErrInvalidCredentials
		}
		return Principal{}, TokenPair{}, storeFailure(err)
	}
	if p.Disabled {
		return Principal{}, TokenPair{}, ErrInvalidCredentials
	}
	if !VerifyPassword(p.PasswordHash, password) {
		return Principal{}, TokenPair{}, ErrInvalidCredentials
	}
	return s.Issue(ctx, p)
}

// Issue mints an access+refresh pair and persists the refresh token,
// unconditionally superseding any prior chain (revocation-by-supersession).
// If the persistence write fails the whole operation fails: tokens whose
// refresh half is not durably recorded must never reach the caller, or every
// later renewal would reject a valid-looking token.
func (s *Sessions) Issue(ctx context.Context, p Principal) (Principal, TokenPair, error) {
	now := s.clock().UTC()

	access, err := s.codec.MintAccess(now, p.ID, p.WorkspaceID, p.Email, p.Role)
	if err != nil {
		return Principal{}, TokenPair{}, err
	}
	refresh, err := s.codec.MintRefresh(now, p.ID)
	if err != nil {
		return Principal{}, TokenPair{}, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.SetCurrentRefreshToken(storeCtx, p.ID, &refresh); err != nil {
		return Principal{}, TokenPair{}, storeFailure(err)
	}

	p.CurrentRefreshToken = &refresh
	return p, TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Renew exchanges a presented refresh token for a new access token.
//
// The renewal state machine: signature/expiry check, principal load, stored
// value match, reissue. Any verification or match failure collapses to
// ErrTokenInvalid / ErrRefreshFailed without sub-reasons.
//
// The returned pair's RefreshToken is the successor when rotation is on,
// otherwise the presented token unchanged; the caller re-sets cookies either
// way. Access claims are rebuilt from current principal state, not carried
// forward, so role and email changes since login take effect here.
func (s *Sessions) Renew(ctx context.Context, presented string) (Principal, TokenPair, error) {
	now := s.clock().UTC()

	claims, err := s.codec.VerifyRefresh(presented, now)
	if err != nil {
		return Principal{}, TokenPair{}, ErrTokenInvalid
	}

	storeCtx, cancel := s.storeContext(ctx)
	p, err := s.store.GetPrincipalByID(storeCtx, claims.UserID)
	cancel()
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return Principal{}, TokenPair{}, ErrRefreshFailed
		}
		return Principal{}, TokenPair{}, storeFailure(err)
	}
	if p.Disabled {
		return Principal{}, TokenPair{}, ErrRefreshFailed
	}

	refreshOut := presented
	if s.rotate {
		next, err := s.codec.MintRefresh(now, p.ID)
		if err != nil {
			return Principal{}, TokenPair{}, err
		}
		storeCtx, cancel := s.storeContext(ctx)
		swapped, err := s.store.SwapCurrentRefreshToken(storeCtx, p.ID, &presented, &next)
		cancel()
		if err != nil {
			if errors.Is(err, ErrPrincipalNotFound) {
				return Principal{}, TokenPair{}, ErrRefreshFailed
			}
			return Principal{}, TokenPair{}, storeFailure(err)
		}
		if !swapped {
			// Superseded by a later login or a concurrent renewal that won
			// the CAS. Losing callers must re-authenticate.
			return Principal{}, TokenPair{}, ErrRefreshFailed
		}
		refreshOut = next
		p.CurrentRefreshToken = &next
	} else {
		if !tokenEqual(p.CurrentRefreshToken, &presented) {
			return Principal{}, TokenPair{}, ErrRefreshFailed
		}
	}

	access, err := s.codec.MintAccess(now, p.ID, p.WorkspaceID, p.Email, p.Role)
	if err != nil {
		return Principal{}, TokenPair{}, err
	}
	return p, TokenPair{AccessToken: access, RefreshToken: refreshOut}, nil
}

// Revoke clears the stored refresh token, terminating the chain. Idempotent:
// revoking an already-revoked or unknown principal is a no-op success.
// Access tokens already in flight remain valid until their own expiry.
func (s *Sessions) Revoke(ctx context.Context, principalID string) error {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.SetCurrentRefreshToken(storeCtx, principalID, nil); err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil
		}
		return storeFailure(err)
	}
	return nil
}

// Logout revokes the chain using whichever presented token still identifies
// the principal. A session that cannot be identified from either token is
// treated as already terminated; logout never fails for token reasons.
func (s *Sessions) Logout(ctx context.Context, access, refresh string) error {
	now := s.clock().UTC()
	if claims, err := s.codec.VerifyAccess(access, now); err == nil {
		return s.Revoke(ctx, claims.UserID)
	}
	if claims, err := s.codec.VerifyRefresh(refresh, now); err == nil {
		return s.Revoke(ctx, claims.UserID)
	}
	return nil
}

// VerifyAccess exposes stateless access-token verification to the transport.
func (s *Sessions) VerifyAccess(token string) (AccessClaims, error) {
	return s.codec.VerifyAccess(token, s.clock().UTC())
}

func (s *Sessions) AccessTTL() time.Duration  { return s.codec.AccessTTL() }
func (s *Sessions) RefreshTTL() time.Duration { return s.codec.RefreshTTL() }

func (s *Sessions) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

func storeFailure(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrStoreUnavailable
	}
	return errors.Join(ErrStoreUnavailable, err)
}
