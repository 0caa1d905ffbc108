package auth

import (
	"context"
	"strings"
	"time"

	"crm-platform/pkg/logger"
	"crm-platform/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter keeps credential stuffing off the bcrypt path with an atomic
// fixed-window counter per email+IP.
//
// Redis outages degrade to allow: login availability wins over strictness,
// and the degradation is logged.
type LoginLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewLoginLimiter(rdb *redis.Client, limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &LoginLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow counts an attempt and reports whether it is within the window limit.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) bool {
	if l == nil || l.rdb == nil {
		return true
	}
	ok, err := utils.AllowFixedWindow(ctx, l.rdb, l.key(email, ip), l.limit, l.window)
	if err != nil {
		logger.From(ctx).Warn("login limiter degraded", "err", err)
		return true
	}
	return ok
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) {
	if l == nil || l.rdb == nil {
		return
	}
	if err := utils.ResetFixedWindow(ctx, l.rdb, l.key(email, ip)); err != nil {
		logger.From(ctx).Warn("login limiter reset failed", "err", err)
	}
}

func (l *LoginLimiter) key(email, ip string) string {
	return "la:" + strings.ToLower(strings.TrimSpace(email)) + ":" + ip
}
