package auth

import (
	"errors"
	"fmt"
	"time"

	"crm-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Codec signs and verifies the two token kinds with independent secrets and
// independent TTLs. A compromise of the access secret must not allow forging
// refresh tokens, and vice versa.
//
// Stateless aside from secret material; safe for concurrent use.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(cfg config.AuthConfig) (*Codec, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("AUTH_ACCESS_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return nil, errors.New("AUTH_REFRESH_SECRET is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

/* ===================== MINT ===================== */

func (c *Codec) MintAccess(now time.Time, userID, workspaceID, email, role string) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: c.registered(now, userID, c.accessTTL),
		UserID:           userID,
		WorkspaceID:      workspaceID,
		Email:            email,
		Role:             role,
		TokenUse:         TokenUseAccess,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.accessSecret)
	if err != nil {
		return "", fmt.Errorf("mint access: %w", err)
	}
	return signed, nil
}

func (c *Codec) MintRefresh(now time.Time, userID string) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: c.registered(now, userID, c.refreshTTL),
		UserID:           userID,
		TokenUse:         TokenUseRefresh,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("mint refresh: %w", err)
	}
	return signed, nil
}

/* ===================== VERIFY ===================== */

// VerifyAccess parses and validates an access token. Every failure mode
// (malformed, bad signature, expired, wrong token_use, missing fields)
// collapses to ErrTokenInvalid.
func (c *Codec) VerifyAccess(tokenString string, now time.Time) (AccessClaims, error) {
	var claims AccessClaims
	if err := c.parse(tokenString, &claims, c.accessSecret, now); err != nil {
		return AccessClaims{}, ErrTokenInvalid
	}
	if claims.TokenUse != TokenUseAccess || claims.UserID == "" {
		return AccessClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyRefresh is symmetric to VerifyAccess, under the refresh secret.
func (c *Codec) VerifyRefresh(tokenString string, now time.Time) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := c.parse(tokenString, &claims, c.refreshSecret, now); err != nil {
		return RefreshClaims{}, ErrTokenInvalid
	}
	if claims.TokenUse != TokenUseRefresh || claims.UserID == "" {
		return RefreshClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

/* ===================== INTERNAL ===================== */

func (c *Codec) registered(now time.Time, subject string, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

func (c *Codec) parse(tokenString string, claims jwt.Claims, secret []byte, now time.Time) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	})
	return err
}
