package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inventorio/inventory-api/internal/core/domain"
	"github.com/inventorio/inventory-api/internal/core/ports"
)

// Session resolves the cookie token against the session store and injects
// the identity attributes into context. Requests without a live session are
// rejected with 401; routes that tolerate anonymous callers stay outside
// this middleware.
func Session(store ports.SessionStore, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			attrs, err := store.Read(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
				}
				return err
			}

			c.Set("user_id", attrs.UserID)
			c.Set("username", attrs.Username)
			c.Set("role", string(attrs.Role))

			return next(c)
		}
	}
}
