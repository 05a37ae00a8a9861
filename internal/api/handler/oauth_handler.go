package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inventorio/inventory-api/internal/api/metrics"
	"github.com/inventorio/inventory-api/internal/core/domain"
	"github.com/inventorio/inventory-api/internal/core/ports"
)

// OAuthHandler drives the browser-facing legs of the authorization-code
// flow. Callback errors render as plaintext because the user agent arrives
// here by redirect, not by API call.
type OAuthHandler struct {
	provider    ports.IdentityProvider
	states      ports.StateStore
	authService ports.AuthService
	cookie      CookieConfig
	log         zerolog.Logger
}

func NewOAuthHandler(provider ports.IdentityProvider, states ports.StateStore, authService ports.AuthService, cookie CookieConfig, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		provider:    provider,
		states:      states,
		authService: authService,
		cookie:      cookie,
		log:         log,
	}
}

// GoogleLogin issues a fresh anti-forgery state and redirects to the
// provider's authorization URL.
//
// @Summary      Start Google login
// @Tags         users
// @Success      302
// @Router       /api/users/google-login [get]
func (h *OAuthHandler) GoogleLogin(c echo.Context) error {
	state, err := h.states.Issue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// GoogleCallback completes the flow: verifies the single-use state,
// exchanges the code, and logs the verified profile in.
//
// @Summary      Google login callback
// @Tags         users
// @Param        code   query  string  true   "Authorization code"
// @Param        state  query  string  true   "Anti-forgery state"
// @Success      302
// @Failure      400  {string}  string
// @Failure      502  {string}  string
// @Router       /api/users/google-callback [get]
func (h *OAuthHandler) GoogleCallback(c echo.Context) error {
	ctx := c.Request().Context()

	ok, err := h.states.Consume(ctx, c.QueryParam("state"))
	if err != nil {
		return err
	}
	if !ok {
		metrics.OAuthLoginsTotal.WithLabelValues("state_mismatch").Inc()
		h.log.Warn().Msg("oauth callback with unknown or replayed state")
		return c.String(http.StatusBadRequest, domain.ErrStateMismatch.Error())
	}

	profile, err := h.provider.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		metrics.OAuthLoginsTotal.WithLabelValues("exchange_failed").Inc()
		h.log.Error().Err(err).Msg("oauth exchange failed")
		return c.String(http.StatusBadGateway, "login with provider failed")
	}

	token, _, err := h.authService.OAuthLoginOrCreate(ctx, *profile)
	if err != nil {
		if errors.Is(err, domain.ErrEmailUnverified) {
			metrics.OAuthLoginsTotal.WithLabelValues("rejected").Inc()
			return c.String(http.StatusBadRequest, "email not verified")
		}
		return err
	}

	// The cookie overwrite supersedes any prior session; destroy it so the
	// old token does not stay live until its TTL.
	if old := requestToken(c, h.cookie); old != "" && old != token {
		_ = h.authService.Logout(ctx, old)
	}

	metrics.OAuthLoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(sessionCookie(h.cookie, token))
	return c.Redirect(http.StatusFound, "/")
}
