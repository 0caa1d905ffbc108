package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"crm-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

func identityRouter(role, workspaceID string, gate ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{func(c *gin.Context) {
		ctx := auth.WithIdentity(c.Request.Context(), "u", workspaceID, "u@example.com", role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}}, gate...)
	handlers = append(handlers, func(c *gin.Context) { c.Status(200) })
	r.GET("/x", handlers...)
	return r
}

func TestRequireAnyRole_OwnerBypasses(t *testing.T) {
	r := identityRouter(RoleOwner, "w", RequireWorkspace(), RequireAnyRole(RoleAccountant))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireAnyRole_DeniedWhenNotAllowed(t *testing.T) {
	r := identityRouter(RoleMember, "w", RequireWorkspace(), RequireAnyRole(RoleAccountant))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	if w.Code != 403 {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequireAnyRole_AllowedRolePasses(t *testing.T) {
	r := identityRouter(RoleAccountant, "w", RequireWorkspace(), RequireAnyRole(RoleAccountant))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireAnyRole_WorkspaceRequired(t *testing.T) {
	r := identityRouter(RoleOwner, "", RequireWorkspace(), RequireAnyRole(RoleOwner))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	if w.Code != 401 {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
