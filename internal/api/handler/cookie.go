package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieConfig controls how the session token is delivered to the client.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// sessionCookie wraps the opaque token for the browser. The token itself is
// the only credential; the cookie carries no signed payload.
func sessionCookie(cfg CookieConfig, token string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// expiredSessionCookie instructs the browser to drop the session cookie.
func expiredSessionCookie(cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// requestToken returns the session token carried by the request, or "".
func requestToken(c echo.Context, cfg CookieConfig) string {
	cookie, err := c.Cookie(cfg.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
