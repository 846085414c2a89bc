package notification

import (
	"groupcal/core/database"
	"groupcal/core/middleware"
	"groupcal/modules/notification/controller"
	"groupcal/modules/notification/repository"
	"groupcal/modules/notification/router"
	"groupcal/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes.
// The service is returned so other modules can emit notifications.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
