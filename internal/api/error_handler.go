package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inventorio/inventory-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// Plaintext credentials never reach this handler; nothing here logs request
// bodies.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. The duplicate-signup
	// case returns 400, matching the published API contract.
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, domain.ErrMissingFields.Error()
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "user already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrEmailUnverified):
		return http.StatusBadRequest, "email not verified"
	case errors.Is(err, domain.ErrStateMismatch):
		return http.StatusBadRequest, domain.ErrStateMismatch.Error()
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, domain.ErrInvalidRole.Error()
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrOAuthExchange):
		log.Error().Err(err).Msg("oauth exchange failed")
		return http.StatusBadGateway, "login with provider failed"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
