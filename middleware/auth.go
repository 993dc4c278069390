package middleware

import (
	"errors"
	"net/http"
	"strings"

	"legalcase_app_go/db"
	"legalcase_app_go/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	// HeaderUserID carries the id of the calling user. Token validation
	// happens upstream of this service.
	HeaderUserID = "X-User-ID"
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
)

// RequireUser is middleware that resolves the calling user from HeaderUserID
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user identity")
			}

			var user models.User
			err := db.DB.WithContext(c.Request().Context()).First(&user, "id = ?", userID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unknown user")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Failed to resolve user")
			}

			// Check if user is active
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, "User account is inactive")
			}

			c.Set(ContextKeyUser, &user)
			return next(c)
		}
	}
}

// RequireRole is middleware that requires specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}
