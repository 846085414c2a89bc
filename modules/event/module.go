package event

import (
	"groupcal/core/database"
	"groupcal/core/middleware"
	"groupcal/modules/event/controller"
	"groupcal/modules/event/repository"
	"groupcal/modules/event/router"
	"groupcal/modules/event/service"
	groupRepository "groupcal/modules/group/repository"
	notificationService "groupcal/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.Database, notifications notificationService.NotificationServiceInterface, mw *middleware.Middleware) {
	repo := repository.NewEventRepository(db)
	groupRepo := groupRepository.NewGroupRepository(db)
	svc := service.NewEventService(repo, groupRepo, notifications)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
}
