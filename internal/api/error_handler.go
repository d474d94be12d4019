package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pocketledger/expense-tracker/internal/api/handler"
	"github.com/pocketledger/expense-tracker/internal/api/metrics"
	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected and storage errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "reason": "<code>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, reason, msg := handler.Classify(err)
		logError(log, c, err, code, reason)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.ErrorResponse{Error: msg, Reason: reason})
	}
}

func logError(log zerolog.Logger, c echo.Context, err error, code int, reason string) {
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable):
		metrics.StorageErrorsTotal.WithLabelValues(c.Path()).Inc()
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("storage unavailable")
	case code >= http.StatusInternalServerError:
		// Unexpected error: log the real cause, return a generic message.
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("reason", reason).
			Msg("unhandled error")
	}
}
