package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
	"github.com/njprem/MagicBilling_BackEnd/internal/service"
	"github.com/njprem/MagicBilling_BackEnd/internal/util"
)

const contextIdentityKey = "auth.identity"

// TokenParser verifies an access token. *util.JWTManager satisfies it.
type TokenParser interface {
	Parse(token string) (*util.Claims, error)
}

// RequireAuth attaches the caller's identity to the context. The token is
// read from the access cookie first and the bearer header second. No
// database lookup happens here.
func RequireAuth(parser TokenParser, cookies CookieConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c, cookies.name())
			if token == "" {
				return writeServiceError(c, service.ErrAuthenticationTokenMissing)
			}

			claims, err := parser.Parse(token)
			if err != nil {
				if errors.Is(err, util.ErrTokenExpired) {
					clearAccessCookie(c, cookies)
					return writeServiceError(c, service.ErrTokenExpired)
				}
				return writeServiceError(c, service.ErrUnauthorizedAccess)
			}

			identity, err := service.IdentityFromClaims(claims)
			if err != nil {
				return writeServiceError(c, err)
			}
			c.Set(contextIdentityKey, identity)
			return next(c)
		}
	}
}

// RequireRoles must be mounted after RequireAuth.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, util.CodedError(service.ErrAuthenticationTokenMissing.Code, "authentication required"))
			}
			for _, role := range roles {
				if identity.Role == role {
					return next(c)
				}
			}
			return writeServiceError(c, service.ErrForbidden)
		}
	}
}

func CurrentIdentity(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(contextIdentityKey).(domain.Identity)
	return identity, ok
}

func extractToken(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil {
		if v := strings.TrimSpace(cookie.Value); v != "" {
			return v
		}
	}
	authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
