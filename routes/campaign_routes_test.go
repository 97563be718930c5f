package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/RimshaArfeen/diro/middleware"
	"github.com/RimshaArfeen/diro/models"
)

func campaignRequest(t *testing.T, e *echo.Echo, method, path, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		token, err := middleware.GenerateJWT("user-abc", "someone@example.com", role)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// Deletion is destructive and must never be reachable by brands or
// creators, not even for campaigns they own.
func TestCampaignDeleteIsAdminOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	RegisterCampaignRoutes(e, nil, nil)

	for _, role := range []string{models.RoleBrand, models.RoleCreator} {
		rec := campaignRequest(t, e, http.MethodDelete, "/api/campaigns/camp-1", role)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s DELETE: status = %d, want 403", role, rec.Code)
		}
	}

	rec := campaignRequest(t, e, http.MethodDelete, "/api/campaigns/camp-1", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous DELETE: status = %d, want 401", rec.Code)
	}
}

func TestCampaignStatusIsAdminOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	RegisterCampaignRoutes(e, nil, nil)

	for _, role := range []string{models.RoleBrand, models.RoleCreator} {
		rec := campaignRequest(t, e, http.MethodPatch, "/api/campaigns/camp-1/status", role)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s PATCH status: status = %d, want 403", role, rec.Code)
		}
	}
}

func TestCampaignCreateRejectsCreators(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	RegisterCampaignRoutes(e, nil, nil)

	rec := campaignRequest(t, e, http.MethodPost, "/api/campaigns", models.RoleCreator)
	if rec.Code != http.StatusForbidden {
		t.Errorf("creator POST: status = %d, want 403", rec.Code)
	}
}
