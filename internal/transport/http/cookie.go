package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieConfig describes the access-token cookie. MaxAge should be at least
// the access TTL; it is usually the refresh TTL so an expired access token
// is still presented to the refresh endpoint.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func (cfg CookieConfig) name() string {
	if cfg.Name == "" {
		return "access_token"
	}
	return cfg.Name
}

func setAccessCookie(c echo.Context, cfg CookieConfig, token string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.name(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAccessCookie(c echo.Context, cfg CookieConfig) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
