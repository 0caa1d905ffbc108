package httpapi

import (
	"errors"
	"net/http"

	"crm-platform/internal/agreements"
	"crm-platform/internal/audit"
	"crm-platform/internal/auth"
	"crm-platform/internal/clients"
	"crm-platform/internal/documents"
	"crm-platform/internal/expenses"
	"crm-platform/internal/invoices"
	"crm-platform/internal/proposals"
	"crm-platform/internal/reporting"
	"crm-platform/internal/taxes"
	"crm-platform/internal/users"
	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Sessions *auth.Sessions
	Cookies  auth.CookieWriter
	Limiter  *auth.LoginLimiter
	Audit    *audit.Service

	Users      *users.Service
	Clients    *clients.Service
	Proposals  *proposals.Service
	Agreements *agreements.Service
	Invoices   *invoices.Service
	Expenses   *expenses.Service
	Documents  *documents.Service
	Taxes      *taxes.Service
	Reports    *reporting.Service
}

// Failed auth attempts carry no verified tenant yet; audit them under a fixed
// bucket instead of trusting anything the caller sent.
const unattributedWorkspace = "unattributed"

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// Login verifies credentials and starts a cookie session.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()

	if h.Limiter != nil && !h.Limiter.Allow(ctx, req.Email, ip) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts"})
		return
	}

	p, pair, err := h.Sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrStoreUnavailable) {
			logger.From(ctx).Error("login store failure", "err", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
			return
		}
		// Unknown email, wrong password and disabled account respond
		// identically.
		_ = h.Audit.LogAuth(ctx, audit.EventTypeLoginFailed, unattributedWorkspace, "", ip, "login rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if h.Limiter != nil {
		h.Limiter.Reset(ctx, req.Email, ip)
	}
	h.Cookies.SetSession(c, h.Sessions, pair)
	_ = h.Audit.LogAuth(ctx, audit.EventTypeLogin, p.WorkspaceID, p.ID, ip, "login ok")

	c.JSON(http.StatusOK, identityResponse{
		UserID:      p.ID,
		WorkspaceID: p.WorkspaceID,
		Email:       p.Email,
		Role:        p.Role,
	})
}

// Refresh exchanges the refresh cookie for a fresh pair.
func (h Handlers) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	ip := c.ClientIP()

	refresh, err := c.Cookie(h.Cookies.RefreshName)
	if err != nil || refresh == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	p, pair, err := h.Sessions.Renew(ctx, refresh)
	if err != nil {
		if errors.Is(err, auth.ErrStoreUnavailable) {
			logger.From(ctx).Error("refresh store failure", "err", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
			return
		}
		_ = h.Audit.LogAuth(ctx, audit.EventTypeRenewalRejected, unattributedWorkspace, "", ip, "renewal rejected")
		h.Cookies.Clear(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	h.Cookies.SetSession(c, h.Sessions, pair)
	_ = h.Audit.LogAuth(ctx, audit.EventTypeSessionRenewed, p.WorkspaceID, p.ID, ip, "session renewed")

	c.JSON(http.StatusOK, identityResponse{
		UserID:      p.ID,
		WorkspaceID: p.WorkspaceID,
		Email:       p.Email,
		Role:        p.Role,
	})
}

// Logout revokes the refresh chain and clears both cookies. It succeeds even
// when the access token no longer verifies; a stale cookie must not trap the
// client in a session it cannot end.
func (h Handlers) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	access, _ := c.Cookie(h.Cookies.AccessName)
	refresh, _ := c.Cookie(h.Cookies.RefreshName)

	if err := h.Sessions.Logout(ctx, access, refresh); err != nil {
		logger.From(ctx).Error("logout store failure", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
		return
	}
	if claims, err := h.Sessions.VerifyAccess(access); err == nil {
		_ = h.Audit.LogAuth(ctx, audit.EventTypeSessionRevoked, claims.WorkspaceID, claims.UserID, c.ClientIP(), "session revoked")
	}

	h.Cookies.Clear(c)
	c.Status(http.StatusNoContent)
}

// Me echoes the authenticated identity.
func (h Handlers) Me(c *gin.Context) {
	ctx := c.Request.Context()
	uid, _ := auth.UserID(ctx)
	wid, _ := auth.WorkspaceID(ctx)
	email, _ := auth.Email(ctx)
	role, _ := auth.Role(ctx)
	c.JSON(http.StatusOK, identityResponse{
		UserID:      uid,
		WorkspaceID: wid,
		Email:       email,
		Role:        role,
	})
}

// identity pulls the authenticated workspace and user or aborts with 401.
func identity(c *gin.Context) (workspaceID, userID string, ok bool) {
	ctx := c.Request.Context()
	wid, err := auth.WorkspaceID(ctx)
	if err != nil || wid == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return "", "", false
	}
	uid, _ := auth.UserID(ctx)
	return wid, uid, true
}
