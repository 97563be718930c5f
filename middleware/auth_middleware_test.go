package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/RimshaArfeen/diro/models"
)

func requestWithRole(t *testing.T, e *echo.Echo, path, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		token, err := GenerateJWT("user-abc", "someone@example.com", role)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	e.GET("/admin-only", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, JWTMiddleware(), RequireRole(models.RoleAdmin))
	e.GET("/brand-or-admin", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, JWTMiddleware(), RequireRole(models.RoleBrand, models.RoleAdmin))

	if rec := requestWithRole(t, e, "/admin-only", models.RoleAdmin); rec.Code != http.StatusOK {
		t.Errorf("admin on admin-only: status = %d, want 200", rec.Code)
	}
	if rec := requestWithRole(t, e, "/admin-only", models.RoleCreator); rec.Code != http.StatusForbidden {
		t.Errorf("creator on admin-only: status = %d, want 403", rec.Code)
	}
	if rec := requestWithRole(t, e, "/brand-or-admin", models.RoleBrand); rec.Code != http.StatusOK {
		t.Errorf("brand on brand-or-admin: status = %d, want 200", rec.Code)
	}
	if rec := requestWithRole(t, e, "/brand-or-admin", models.RoleCreator); rec.Code != http.StatusForbidden {
		t.Errorf("creator on brand-or-admin: status = %d, want 403", rec.Code)
	}
	if rec := requestWithRole(t, e, "/admin-only", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous on admin-only: status = %d, want 401", rec.Code)
	}
}
