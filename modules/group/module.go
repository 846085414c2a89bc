package group

import (
	"groupcal/core/database"
	"groupcal/core/middleware"
	"groupcal/modules/group/controller"
	"groupcal/modules/group/repository"
	"groupcal/modules/group/router"
	"groupcal/modules/group/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the group module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) {
	repo := repository.NewGroupRepository(db)
	svc := service.NewGroupService(repo)
	ctrl := controller.NewGroupController(svc)
	rtr := router.NewGroupRouter(ctrl)

	rtr.Setup(e, mw)
}
