package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inventorio/inventory-api/internal/core/domain"
	"github.com/inventorio/inventory-api/internal/core/ports"
)

// UsersHandler exposes the admin-facing user directory.
type UsersHandler struct {
	users ports.UserRepository
}

func NewUsersHandler(users ports.UserRepository) *UsersHandler {
	return &UsersHandler{users: users}
}

type listUsersResponse struct {
	Users []domain.User `json:"users"`
}

// List returns every user record. Routed behind the Session and RBAC(admin)
// middleware.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users [get]
func (h *UsersHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}
