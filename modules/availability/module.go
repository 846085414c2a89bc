package availability

import (
	"groupcal/core/database"
	"groupcal/core/middleware"
	"groupcal/modules/availability/controller"
	"groupcal/modules/availability/repository"
	"groupcal/modules/availability/router"
	"groupcal/modules/availability/service"
	groupRepository "groupcal/modules/group/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewAvailabilityRepository(db)
	groupRepo := groupRepository.NewGroupRepository(db)
	svc := service.NewAvailabilityService(repo, groupRepo)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e, mw)
}
