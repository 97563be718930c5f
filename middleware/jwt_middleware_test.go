package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"

	"github.com/RimshaArfeen/diro/models"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("user-abc", "creator@example.com", models.RoleCreator)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(token, &JwtCustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	claims, ok := parsed.Claims.(*JwtCustomClaims)
	if !ok || !parsed.Valid {
		t.Fatal("token claims invalid")
	}
	if claims.UserID != "user-abc" {
		t.Errorf("userId = %q", claims.UserID)
	}
	if claims.Email != "creator@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != models.RoleCreator {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestJWTMiddlewareAcceptsToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("user-abc", "creator@example.com", models.RoleCreator)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("userId").(string))
	}, JWTMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "user-abc" {
		t.Errorf("userId in context = %q", rec.Body.String())
	}
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, JWTMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestOptionalJWTMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	handler := func(c echo.Context) error {
		if claims := GetUserFromToken(c); claims != nil {
			return c.String(http.StatusOK, claims.Role)
		}
		return c.String(http.StatusOK, "anonymous")
	}
	e.GET("/open", handler, OptionalJWTMiddleware())

	// anonymous request passes through
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Errorf("anonymous: status = %d, body = %q", rec.Code, rec.Body.String())
	}

	// garbage token is ignored, not rejected
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Errorf("bad token: status = %d, body = %q", rec.Code, rec.Body.String())
	}

	// valid token populates claims
	token, err := GenerateJWT("user-abc", "brand@example.com", models.RoleBrand)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Body.String() != models.RoleBrand {
		t.Errorf("valid token: body = %q, want %q", rec.Body.String(), models.RoleBrand)
	}
}
