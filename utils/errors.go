// utils/errors.go
package utils

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RimshaArfeen/diro/models"
)

// ErrorKind is the stable machine-checkable classification carried by
// every application error.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindForbidden      ErrorKind = "forbidden"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindInternal       ErrorKind = "internal"
)

// AppError is the application error taxonomy. Validation errors may
// carry several simultaneous field messages.
type AppError struct {
	Kind     ErrorKind
	Messages []string
}

func (e *AppError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// StatusCode maps the error kind to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func ValidationError(messages ...string) *AppError {
	return &AppError{Kind: KindValidation, Messages: messages}
}

func AuthenticationError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return &AppError{Kind: KindAuthentication, Messages: []string{message}}
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Access denied"
	}
	return &AppError{Kind: KindForbidden, Messages: []string{message}}
}

func NotFoundError(resource string) *AppError {
	if resource == "" {
		resource = "Resource"
	}
	return &AppError{Kind: KindNotFound, Messages: []string{resource + " not found"}}
}

func ConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Messages: []string{message}}
}

// RespondError writes err through the shared response envelope.
// AppErrors surface their kind and messages; duplicate-key errors from
// Mongo become conflicts; anything else is logged and returned opaque.
func RespondError(c echo.Context, logger *log.Logger, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.StatusCode(), models.Response{
			Status:  appErr.StatusCode(),
			Message: appErr.Error(),
			Data:    map[string]interface{}{"kind": string(appErr.Kind), "messages": appErr.Messages},
		})
	}

	if mongo.IsDuplicateKeyError(err) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Resource already exists",
			Data:    map[string]interface{}{"kind": string(KindConflict)},
		})
	}

	if logger != nil {
		logger.Printf("Unhandled error: %v", err)
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
		Data:    map[string]interface{}{"kind": string(KindInternal)},
	})
}
