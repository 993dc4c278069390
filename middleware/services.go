package middleware

import (
	"legalcase_app_go/services"
	"legalcase_app_go/services/docstore"

	"github.com/labstack/echo/v4"
)

// Context keys for the persistence services
const (
	ContextKeyCoordinator = "coordinator"
	ContextKeyResearch    = "research"
)

// InjectServices makes the case coordinator and research index available to handlers
func InjectServices(coordinator *services.CaseCoordinator, research docstore.ResearchStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyCoordinator, coordinator)
			c.Set(ContextKeyResearch, research)
			return next(c)
		}
	}
}

// GetCoordinator retrieves the case coordinator from context
func GetCoordinator(c echo.Context) *services.CaseCoordinator {
	coordinator, _ := c.Get(ContextKeyCoordinator).(*services.CaseCoordinator)
	return coordinator
}

// GetResearch retrieves the research index from context
func GetResearch(c echo.Context) docstore.ResearchStore {
	research, _ := c.Get(ContextKeyResearch).(docstore.ResearchStore)
	return research
}
