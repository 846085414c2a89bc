package router

import (
	"groupcal/core/middleware"
	"groupcal/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

// NewEventRouter creates a new router
func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	eventRoutes := v1.Group("/private/events", mw.AuthMiddleware())
	eventRoutes.POST("", r.EventController.CreateEvent)
	eventRoutes.GET("", r.EventController.GetMyEvents)
	eventRoutes.DELETE("/:id", r.EventController.DeleteEvent)

	groupEventRoutes := v1.Group("/private/groups", mw.AuthMiddleware())
	groupEventRoutes.POST("/:id/events", r.EventController.CreateGroupEvent)
	groupEventRoutes.GET("/:id/events", r.EventController.GetGroupEvents)
}
