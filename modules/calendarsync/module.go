package calendarsync

import (
	"groupcal/core/cache"
	"groupcal/core/database"
	"groupcal/core/middleware"
	"groupcal/modules/calendarsync/controller"
	"groupcal/modules/calendarsync/repository"
	"groupcal/modules/calendarsync/router"
	"groupcal/modules/calendarsync/service"
	notificationService "groupcal/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the calendar sync module and registers routes. The
// service is returned so the worker can register its task handlers.
func Init(
	e *echo.Echo,
	db database.Database,
	cache cache.Cache,
	queueClient *asynq.Client,
	notifications notificationService.NotificationServiceInterface,
	mw *middleware.Middleware,
) service.CalendarSyncServiceInterface {
	repo := repository.NewCalendarSyncRepository(db)
	svc := service.NewCalendarSyncService(repo, cache, queueClient, notifications)
	ctrl := controller.NewCalendarSyncController(svc)
	rtr := router.NewCalendarSyncRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
