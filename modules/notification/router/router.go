package router

import (
	"groupcal/core/middleware"
	"groupcal/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// NotificationRouter handles notification routes
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

// NewNotificationRouter creates a new router
func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{
		NotificationController: notificationController,
	}
}

// Setup registers notification routes
func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	privateRoutes := v1.Group("/private/notifications", mw.AuthMiddleware())
	privateRoutes.GET("", r.NotificationController.GetMyNotifications)
	privateRoutes.GET("/unread-count", r.NotificationController.CountUnread)
	privateRoutes.PUT("/mark-read", r.NotificationController.MarkAsRead)
	privateRoutes.PUT("/mark-all-read", r.NotificationController.MarkAllAsRead)
}
