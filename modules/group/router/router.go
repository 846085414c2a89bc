package router

import (
	"groupcal/core/middleware"
	"groupcal/modules/group/controller"

	"github.com/labstack/echo/v4"
)

// GroupRouter handles group routes
type GroupRouter struct {
	GroupController *controller.GroupController
}

// NewGroupRouter creates a new router
func NewGroupRouter(groupController *controller.GroupController) *GroupRouter {
	return &GroupRouter{
		GroupController: groupController,
	}
}

// Setup registers group routes
func (r *GroupRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	privateRoutes := v1.Group("/private/groups", mw.AuthMiddleware())
	privateRoutes.POST("", r.GroupController.CreateGroup)
	privateRoutes.GET("", r.GroupController.GetMyGroups)
	privateRoutes.POST("/join", r.GroupController.JoinGroup)
	privateRoutes.GET("/:id", r.GroupController.GetGroup)
	privateRoutes.DELETE("/:id", r.GroupController.DeleteGroup)
	privateRoutes.GET("/:id/members", r.GroupController.GetMembers)
	privateRoutes.POST("/:id/leave", r.GroupController.LeaveGroup)
	privateRoutes.POST("/:id/join-key", r.GroupController.RegenerateJoinKey)
}
