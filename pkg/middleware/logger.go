package middleware

import (
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Logger emits one structured line per completed request. Migration runs are
// driven by batch tooling, so the request id is what ties an HTTP call back
// to the processor logs it triggered.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			logger.WithContext(req.Context()).WithFields(map[string]any{
				"request_id":  requestID(c),
				"method":      req.Method,
				"route":       c.Path(),
				"uri":         req.RequestURI,
				"status":      res.Status,
				"remote_ip":   c.RealIP(),
				"host":        req.Host,
				"user_agent":  req.UserAgent(),
				"duration_ms": elapsed.Milliseconds(),
				"bytes_in":    req.Header.Get(echo.HeaderContentLength),
				"bytes_out":   strconv.FormatInt(res.Size, 10),
			}).Info("request completed")

			return nil
		}
	}
}

// requestID prefers the id the caller or the request-id middleware assigned,
// generating one only when neither is present.
func requestID(c echo.Context) string {
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return uuid.New().String()
}
