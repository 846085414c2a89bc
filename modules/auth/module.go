package auth

import (
	"groupcal/core/cache"
	"groupcal/core/database"
	"groupcal/core/middleware"
	"groupcal/modules/auth/controller"
	"groupcal/modules/auth/repository"
	"groupcal/modules/auth/router"
	"groupcal/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes
func Init(e *echo.Echo, db database.Database, cache cache.Cache, mw *middleware.Middleware) {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, cache)
	ctrl := controller.NewAuthController(svc)
	rtr := router.NewAuthRouter(ctrl)

	rtr.Setup(e, mw)
}
