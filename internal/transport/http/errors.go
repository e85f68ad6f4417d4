package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/njprem/MagicBilling_BackEnd/internal/logging"
	"github.com/njprem/MagicBilling_BackEnd/internal/service"
	"github.com/njprem/MagicBilling_BackEnd/internal/util"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(c echo.Context, err error) error {
	return respondError(c, nil, err)
}

// respondError renders err as {"error", "code"}. Dependency failures keep
// their cause out of the response and in the log.
func respondError(c echo.Context, log logging.Logger, err error) error {
	kind := service.KindOf(err)
	status := statusFor(kind)

	var cooldown *service.CooldownError
	if errors.As(err, &cooldown) {
		c.Response().Header().Set("Retry-After", strconv.Itoa(cooldown.SecondsRemaining))
		return c.JSON(status, util.Envelope{
			"error":             cooldown.Error(),
			"code":              service.ErrCooldownActive.Code,
			"seconds_remaining": cooldown.SecondsRemaining,
		})
	}

	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = service.ErrDependencyFailure
	}

	if kind == service.KindDependency && log != nil {
		log.Error(c.Request().Context(), "request failed",
			"code", svcErr.Code,
			"path", c.Path(),
			"error", err.Error(),
		)
	}
	return c.JSON(status, util.CodedError(svcErr.Code, svcErr.Message))
}
