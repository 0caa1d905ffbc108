package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crm-platform/internal/audit"
	"crm-platform/internal/auth"
	"crm-platform/internal/config"

	"github.com/gin-gonic/gin"
)

type authFixture struct {
	router  *gin.Engine
	store   *auth.MemoryPrincipalStore
	cookies auth.CookieWriter
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := auth.NewCodec(config.AuthConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	store := auth.NewMemoryPrincipalStore()
	sessions := auth.NewSessions(codec, store)
	cookies := auth.NewCookieWriter(config.AuthConfig{
		AccessCookieName:  "crm_at",
		RefreshCookieName: "crm_rt",
	}, false)

	h := Handlers{
		Sessions: sessions,
		Cookies:  cookies,
		Audit:    audit.NewService(audit.NewMemoryRepo()),
	}

	r := gin.New()
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/refresh", h.Refresh)
	r.POST("/v1/auth/logout", h.Logout)
	me := r.Group("/v1", auth.RequireSession(sessions, cookies))
	me.GET("/me", h.Me)

	return &authFixture{router: r, store: store, cookies: cookies}
}

func (f *authFixture) seedUser(t *testing.T, email, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	f.store.Put(auth.Principal{
		ID:           "u1",
		WorkspaceID:  "ws-1",
		Email:        email,
		PasswordHash: hash,
		Role:         "owner",
	})
}

func (f *authFixture) do(method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func sessionCookies(t *testing.T, w *httptest.ResponseRecorder, f *authFixture) []*http.Cookie {
	t.Helper()
	var out []*http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == f.cookies.AccessName || c.Name == f.cookies.RefreshName {
			out = append(out, c)
		}
	}
	if len(out) != 2 {
		t.Fatalf("expected both session cookies, got %d", len(out))
	}
	return out
}

func TestLogin_SetsCookiesAndReturnsIdentity(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "a@b.com", "secret-pw")

	w := f.do(http.MethodPost, "/v1/auth/login", `{"email":"a@b.com","password":"secret-pw"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", w.Code)
	}

	var resp identityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID != "u1" || resp.WorkspaceID != "ws-1" || resp.Role != "owner" {
		t.Fatalf("unexpected identity: %+v", resp)
	}

	for _, c := range sessionCookies(t, w, f) {
		if !c.HttpOnly {
			t.Fatalf("cookie %s must be HttpOnly", c.Name)
		}
	}
}

func TestLogin_WrongPasswordIsGeneric401(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "a@b.com", "secret-pw")

	for _, body := range []string{
		`{"email":"a@b.com","password":"wrong"}`,
		`{"email":"nobody@b.com","password":"whatever"}`,
	} {
		w := f.do(http.MethodPost, "/v1/auth/login", body, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		// Same body for unknown email and bad password.
		if !strings.Contains(w.Body.String(), "invalid credentials") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	}
}

func TestMe_RequiresSessionCookie(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "a@b.com", "secret-pw")

	if w := f.do(http.MethodGet, "/v1/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous /me status = %d, want 401", w.Code)
	}

	login := f.do(http.MethodPost, "/v1/auth/login", `{"email":"a@b.com","password":"secret-pw"}`, nil)
	cookies := sessionCookies(t, login, f)

	w := f.do(http.MethodGet, "/v1/me", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("/me status = %d, want 200", w.Code)
	}
}

func TestRefresh_RotatesCookies(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "a@b.com", "secret-pw")

	login := f.do(http.MethodPost, "/v1/auth/login", `{"email":"a@b.com","password":"secret-pw"}`, nil)
	first := sessionCookies(t, login, f)

	refresh := f.do(http.MethodPost, "/v1/auth/refresh", "", first)
	if refresh.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want 200", refresh.Code)
	}
	second := sessionCookies(t, refresh, f)

	for i := range first {
		if first[i].Value == second[i].Value {
			t.Fatalf("cookie %s was not rotated", first[i].Name)
		}
	}

	// The superseded refresh token must be rejected.
	replay := f.do(http.MethodPost, "/v1/auth/refresh", "", first)
	if replay.Code != http.StatusUnauthorized {
		t.Fatalf("replay status = %d, want 401", replay.Code)
	}
}

func TestLogout_ClearsCookiesAndRevokes(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "a@b.com", "secret-pw")

	login := f.do(http.MethodPost, "/v1/auth/login", `{"email":"a@b.com","password":"secret-pw"}`, nil)
	cookies := sessionCookies(t, login, f)

	logout := f.do(http.MethodPost, "/v1/auth/logout", "", cookies)
	if logout.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", logout.Code)
	}
	for _, c := range logout.Result().Cookies() {
		if (c.Name == f.cookies.AccessName || c.Name == f.cookies.RefreshName) && c.MaxAge >= 0 {
			t.Fatalf("cookie %s not cleared", c.Name)
		}
	}

	// The refresh chain is gone.
	if w := f.do(http.MethodPost, "/v1/auth/refresh", "", cookies); w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout status = %d, want 401", w.Code)
	}

	// Logging out again with dead cookies is still a 204.
	if w := f.do(http.MethodPost, "/v1/auth/logout", "", cookies); w.Code != http.StatusNoContent {
		t.Fatalf("repeat logout status = %d, want 204", w.Code)
	}

	p, err := f.store.GetPrincipalByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetPrincipalByID: %v", err)
	}
	if p.CurrentRefreshToken != nil {
		t.Fatalf("refresh chain not revoked")
	}
}
