package router

import (
	"groupcal/core/middleware"
	"groupcal/modules/calendarsync/controller"

	"github.com/labstack/echo/v4"
)

// CalendarSyncRouter handles calendar sync routes
type CalendarSyncRouter struct {
	CalendarSyncController *controller.CalendarSyncController
}

// NewCalendarSyncRouter creates a new router
func NewCalendarSyncRouter(calendarSyncController *controller.CalendarSyncController) *CalendarSyncRouter {
	return &CalendarSyncRouter{
		CalendarSyncController: calendarSyncController,
	}
}

// Setup registers calendar sync routes. The OAuth callback is public
// because Google redirects the browser there without our JWT.
func (r *CalendarSyncRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public/calendar")
	publicRoutes.GET("/google/callback", r.CalendarSyncController.GoogleCallback)

	privateRoutes := v1.Group("/private/calendar", mw.AuthMiddleware())
	privateRoutes.GET("/google/login", r.CalendarSyncController.GoogleLogin)
	privateRoutes.GET("/connections", r.CalendarSyncController.GetConnections)
	privateRoutes.DELETE("/connections/:provider", r.CalendarSyncController.Disconnect)
	privateRoutes.POST("/feeds", r.CalendarSyncController.AddFeed)
	privateRoutes.GET("/feeds", r.CalendarSyncController.ListFeeds)
	privateRoutes.DELETE("/feeds/:id", r.CalendarSyncController.DeleteFeed)
	privateRoutes.POST("/sync", r.CalendarSyncController.TriggerSync)
}
