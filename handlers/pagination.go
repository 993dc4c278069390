package handlers

import (
	"strconv"

	"legalcase_app_go/config"

	"github.com/labstack/echo/v4"
)

// pageLimits returns the default and maximum page sizes for the request
func pageLimits(c echo.Context) (int, int) {
	if cfg, ok := c.Get("config").(*config.Config); ok && cfg.DefaultPageSize > 0 {
		return cfg.DefaultPageSize, cfg.MaxPageSize
	}
	return config.DefaultPageSize, config.DefaultMaxPageSize
}

// clampTake applies the default page size to a missing take and caps it
func clampTake(c echo.Context, take int) int {
	def, max := pageLimits(c)
	if take <= 0 {
		return def
	}
	if take > max {
		return max
	}
	return take
}

// queryLimit reads the "limit" query parameter, clamped to the page limits
func queryLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return clampTake(c, limit)
}
