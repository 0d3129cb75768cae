package rbac

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	roles := r.Group("/rbac")
	roles.Use(middleware.AuthMiddleware())
	{
		roles.GET("/roles", middleware.RBACAuthorize(rbacService, "rbac", "read"), handler.ListRoles)
		roles.POST("/roles/assign", middleware.RBACAuthorize(rbacService, "rbac", "manage"), handler.AssignRole)
	}
}
