package handlers

import (
	"context"
	"errors"
	"net/http"

	"legalcase_app_go/models"

	"github.com/labstack/echo/v4"
)

// storeError maps persistence errors onto HTTP errors
func storeError(err error, notFound string) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, models.ErrDuplicateKey):
		return echo.NewHTTPError(http.StatusConflict, "Resource already exists")
	case errors.Is(err, models.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage temporarily unavailable").SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}
