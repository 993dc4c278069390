package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the reachability of both stores
func HealthHandler(relational, documents Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"relational": "ok", "documents": "ok"}
		code := http.StatusOK

		if err := relational.Ping(ctx); err != nil {
			status["relational"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if err := documents.Ping(ctx); err != nil {
			status["documents"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, status)
	}
}
