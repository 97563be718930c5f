package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/RimshaArfeen/diro/models"
)

func TestAppErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{ValidationError("bad"), http.StatusBadRequest},
		{AuthenticationError(""), http.StatusUnauthorized},
		{ForbiddenError(""), http.StatusForbidden},
		{NotFoundError("Campaign"), http.StatusNotFound},
		{ConflictError("exists"), http.StatusConflict},
		{&AppError{Kind: KindInternal, Messages: []string{"boom"}}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.StatusCode(); got != tc.want {
			t.Errorf("%s: StatusCode() = %d, want %d", tc.err.Kind, got, tc.want)
		}
	}
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := NotFoundError("Campaign")
	if err.Error() != "Campaign not found" {
		t.Errorf("got %q", err.Error())
	}
	if NotFoundError("").Error() != "Resource not found" {
		t.Errorf("empty resource should default, got %q", NotFoundError("").Error())
	}
}

func TestValidationErrorJoinsMessages(t *testing.T) {
	err := ValidationError("title: too short", "cpm: too low")
	if err.Error() != "title: too short; cpm: too low" {
		t.Errorf("got %q", err.Error())
	}
}

func respondThrough(t *testing.T, err error) (*httptest.ResponseRecorder, models.Response) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if respErr := RespondError(c, nil, err); respErr != nil {
		t.Fatalf("RespondError returned %v", respErr)
	}

	var body models.Response
	if jsonErr := json.Unmarshal(rec.Body.Bytes(), &body); jsonErr != nil {
		t.Fatalf("invalid response body: %v", jsonErr)
	}
	return rec, body
}

func TestRespondErrorAppError(t *testing.T) {
	rec, body := respondThrough(t, ValidationError("amount: Amount must be greater than 0"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body.Message != "amount: Amount must be greater than 0" {
		t.Errorf("message = %q", body.Message)
	}
	data, ok := body.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data missing: %v", body.Data)
	}
	if data["kind"] != "validation" {
		t.Errorf("kind = %v, want validation", data["kind"])
	}
}

func TestRespondErrorOpaqueInternal(t *testing.T) {
	rec, body := respondThrough(t, echo.NewHTTPError(500, "raw driver error with connection string"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body.Message != "Internal Server Error" {
		t.Errorf("internal details leaked: %q", body.Message)
	}
}
