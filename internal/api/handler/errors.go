package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// Stable machine-readable failure reasons carried in every error body.
const (
	ReasonValidation         = "validation_error"
	ReasonDuplicateUsername  = "duplicate_username"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonUnauthenticated    = "unauthenticated"
	ReasonStorageUnavailable = "storage_unavailable"
	ReasonInternal           = "internal_error"
)

// Classify maps err onto an HTTP status, a stable reason and a message that
// is safe to show to clients. Unknown errors collapse to internal_error so
// driver details never leak.
func Classify(err error) (status int, reason, message string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ReasonValidation, ve.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ReasonValidation, "invalid input"
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict, ReasonDuplicateUsername, "username already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, ReasonInvalidCredentials, "invalid username or password"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ReasonUnauthenticated, "authentication required"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, ReasonStorageUnavailable, "storage temporarily unavailable"
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, reasonForStatus(he.Code), fmt.Sprintf("%v", he.Message)
	}

	return http.StatusInternalServerError, ReasonInternal, "internal server error"
}

// reasonForStatus derives a snake_case reason from the status text, e.g.
// 405 → method_not_allowed.
func reasonForStatus(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
