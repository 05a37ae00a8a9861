package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inventorio/inventory-api/internal/core/domain"
)

// ctxIdentity extracts the session attributes injected by the Session
// middleware. A missing user_id means the middleware did not run or the
// request is anonymous; both reject with 401 before any service call.
func ctxIdentity(c echo.Context) (domain.SessionAttrs, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return domain.SessionAttrs{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	username, _ := c.Get("username").(string)
	role, _ := c.Get("role").(string)

	return domain.SessionAttrs{
		UserID:   userID,
		Username: username,
		Role:     domain.Role(role),
	}, nil
}
