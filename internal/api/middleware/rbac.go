package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inventorio/inventory-api/internal/core/domain"
)

// RBAC enforces role-based access control. The role claim comes from the
// Session middleware, so RBAC must be chained after it.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
