package middleware

import (
	"time"

	"legalcase_app_go/logging"

	"github.com/labstack/echo/v4"
)

// RequestLog is middleware that writes one structured line per request
func RequestLog() echo.MiddlewareFunc {
	logger := logging.New("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the error response so the status is final
				c.Error(err)
			}

			req := c.Request()
			event := logger.Info()
			if status := c.Response().Status; status >= 500 {
				event = logger.Error().Err(err)
			} else if status >= 400 {
				event = logger.Warn()
			}

			if user := GetCurrentUser(c); user != nil {
				event = event.Str("user_id", user.ID)
			}
			event.
				Str("method", req.Method).
				Str("path", c.Path()).
				Int("status", c.Response().Status).
				Str("ip", c.RealIP()).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
