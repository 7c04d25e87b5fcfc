// Package middleware provides HTTP middleware for the fern API.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
)

// HeaderAPIKey is the header carrying the caller's API key.
const HeaderAPIKey = "X-API-Key"

// APIKeyAuth rejects requests whose X-API-Key header does not match the
// configured key. Health endpoints are always allowed through so probes keep
// working. Only wire this when AUTH_ENABLED=true.
func APIKeyAuth(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/api/v1/health") {
				return next(c)
			}

			provided := c.Request().Header.Get(HeaderAPIKey)
			if provided == "" {
				return httperror.NewHTTPError(http.StatusUnauthorized, "api key is required")
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				return httperror.NewHTTPError(http.StatusUnauthorized, "invalid api key")
			}

			return next(c)
		}
	}
}
