package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inventorio/inventory-api/internal/api/metrics"
	"github.com/inventorio/inventory-api/internal/core/domain"
	"github.com/inventorio/inventory-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type userResponse struct {
	Message string `json:"message"`
	User    any    `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Create registers a new user account.
//
// @Summary      Create a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/users/create [post]
func (h *AuthHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		}
		return err
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, userResponse{Message: "User created successfully", User: user})
}

// Login authenticates by username or email and sets the session cookie.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials: username or email, plus password"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username or email and password are required")
	}

	token, user, err := h.authService.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	// A successful login while already authenticated overwrites the previous
	// identity: the superseded session is destroyed once the fresh token
	// exists. A failed attempt must leave the caller's session untouched.
	if old := requestToken(c, h.cookie); old != "" && old != token {
		_ = h.authService.Logout(c.Request().Context(), old)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(sessionCookie(h.cookie, token))
	return c.JSON(http.StatusOK, userResponse{Message: "Login successful", User: user.Public()})
}

// Logout destroys the current session. Always succeeds, even for anonymous
// callers.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := requestToken(c, h.cookie); token != "" {
		if err := h.authService.Logout(c.Request().Context(), token); err != nil {
			return err
		}
		metrics.SessionsDestroyedTotal.Inc()
	}

	c.SetCookie(expiredSessionCookie(h.cookie))
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// Me returns the identity attributes of the current session.
//
// @Summary      Current session identity
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.SessionAttrs
// @Failure      401  {object}  map[string]string
// @Router       /api/users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	attrs, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attrs)
}
