package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-platform/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(f *sessionFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cookies := CookieWriter{AccessName: "crm_access", RefreshName: "crm_refresh"}
	r := gin.New()
	r.GET("/me", RequireSession(f.sessions, cookies), func(c *gin.Context) {
		uid, _ := UserID(c.Request.Context())
		role, _ := Role(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": uid, "role": role})
	})
	return r
}

func doGet(r *gin.Engine, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSession_NoCookies(t *testing.T) {
	f := newSessionFixture(t)
	r := testRouter(f)

	w := doGet(r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_ValidAccessCookie(t *testing.T) {
	f := newSessionFixture(t)
	p := f.seedUser(t, "pass")
	r := testRouter(f)

	_, pair, err := f.sessions.Issue(context.Background(), p)
	require.NoError(t, err)

	w := doGet(r, &http.Cookie{Name: "crm_access", Value: pair.AccessToken})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestRequireSession_SilentRenewalOnExpiredAccess(t *testing.T) {
	f := newSessionFixture(t)
	p := f.seedUser(t, "pass")
	r := testRouter(f)

	_, pair, err := f.sessions.Issue(context.Background(), p)
	require.NoError(t, err)

	// Access token dead, refresh token alive: the request still succeeds and
	// fresh cookies come back.
	f.advance(16 * time.Minute)

	w := doGet(r,
		&http.Cookie{Name: "crm_access", Value: pair.AccessToken},
		&http.Cookie{Name: "crm_refresh", Value: pair.RefreshToken},
	)
	require.Equal(t, http.StatusOK, w.Code)

	var gotAccess, gotRefresh bool
	for _, ck := range w.Result().Cookies() {
		switch ck.Name {
		case "crm_access":
			gotAccess = ck.Value != "" && ck.Value != pair.AccessToken
		case "crm_refresh":
			// Rotation is on by default: the refresh cookie changes too.
			gotRefresh = ck.Value != "" && ck.Value != pair.RefreshToken
		}
	}
	assert.True(t, gotAccess, "expected a fresh access cookie")
	assert.True(t, gotRefresh, "expected a rotated refresh cookie")
}

func TestRequireSession_RevokedChainIs401(t *testing.T) {
	f := newSessionFixture(t)
	p := f.seedUser(t, "pass")
	r := testRouter(f)

	_, pair, err := f.sessions.Issue(context.Background(), p)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Revoke(context.Background(), "u1"))

	f.advance(16 * time.Minute)
	w := doGet(r,
		&http.Cookie{Name: "crm_access", Value: pair.AccessToken},
		&http.Cookie{Name: "crm_refresh", Value: pair.RefreshToken},
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_GarbageRefreshIs401(t *testing.T) {
	f := newSessionFixture(t)
	f.seedUser(t, "pass")
	r := testRouter(f)

	w := doGet(r, &http.Cookie{Name: "crm_refresh", Value: "junk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCookieWriter_RoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.AuthConfig{AccessCookieName: "a", RefreshCookieName: "r"}
	cw := NewCookieWriter(cfg, false)

	f := newSessionFixture(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	cw.SetSession(c, f.sessions, TokenPair{AccessToken: "at", RefreshToken: "rt"})
	cw.Clear(c)

	var cleared int
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 && (ck.Name == "a" || ck.Name == "r") {
			cleared++
		}
	}
	assert.Equal(t, 2, cleared, "both cookies should be expired by Clear")
}
