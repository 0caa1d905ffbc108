package auth

import (
	"errors"
	"net/http"

	"crm-platform/internal/config"
	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CookieWriter owns the cookie mechanics the token subsystem itself stays
// out of: both tokens live in separate HttpOnly cookies whose max-age
// matches the respective TTL.
type CookieWriter struct {
	Domain      string
	AccessName  string
	RefreshName string
	Secure      bool
}

func NewCookieWriter(cfg config.AuthConfig, secure bool) CookieWriter {
	return CookieWriter{
		Domain:      cfg.CookieDomain,
		AccessName:  cfg.AccessCookieName,
		RefreshName: cfg.RefreshCookieName,
		Secure:      secure,
	}
}

// SetSession writes both token cookies.
func (w CookieWriter) SetSession(c *gin.Context, s *Sessions, pair TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(w.AccessName, pair.AccessToken, int(s.AccessTTL().Seconds()), "/", w.Domain, w.Secure, true)
	c.SetCookie(w.RefreshName, pair.RefreshToken, int(s.RefreshTTL().Seconds()), "/", w.Domain, w.Secure, true)
}

// SetAccess rewrites only the access cookie, used after silent renewal when
// rotation is off.
func (w CookieWriter) SetAccess(c *gin.Context, s *Sessions, accessToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(w.AccessName, accessToken, int(s.AccessTTL().Seconds()), "/", w.Domain, w.Secure, true)
}

// Clear expires both cookies.
func (w CookieWriter) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(w.AccessName, "", -1, "/", w.Domain, w.Secure, true)
	c.SetCookie(w.RefreshName, "", -1, "/", w.Domain, w.Secure, true)
}

// RequireSession verifies the access cookie and injects identity into the
// request context. On access failure or absence it attempts exactly one
// silent renewal from the refresh cookie, re-setting cookies on success.
// Any further failure surfaces as 401; the client must fall back to login.
//
// It does not perform role checks; those belong to internal/rbac.
func RequireSession(s *Sessions, cookies CookieWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if access, err := c.Cookie(cookies.AccessName); err == nil && access != "" {
			if claims, err := s.VerifyAccess(access); err == nil {
				attachIdentity(c, claims.UserID, claims.WorkspaceID, claims.Email, claims.Role)
				c.Next()
				return
			}
		}

		refresh, err := c.Cookie(cookies.RefreshName)
		if err != nil || refresh == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		p, pair, err := s.Renew(c.Request.Context(), refresh)
		if err != nil {
			if errors.Is(err, ErrStoreUnavailable) {
				logger.From(c.Request.Context()).Error("session renewal store failure", "err", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
				return
			}
			// TokenInvalid and RefreshFailed intentionally look identical here.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		cookies.SetSession(c, s, pair)
		attachIdentity(c, p.ID, p.WorkspaceID, p.Email, p.Role)
		c.Next()
	}
}

func attachIdentity(c *gin.Context, userID, workspaceID, email, role string) {
	ctx := WithIdentity(c.Request.Context(), userID, workspaceID, email, role)
	c.Request = c.Request.WithContext(ctx)

	// Also store on gin context for handler convenience.
	c.Set("user_id", userID)
	c.Set("workspace_id", workspaceID)
	c.Set("role", role)
}
