package allowance

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	policies := r.Group("/allowance-policies")
	policies.Use(middleware.AuthMiddleware())
	{
		policies.POST("", middleware.RBACAuthorize(rbacService, "allowance", "create"), handler.Create)
		policies.GET("", middleware.RBACAuthorize(rbacService, "allowance", "read"), handler.GetAll)
		policies.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "allowance", "read"), handler.GetByEmployee)
		policies.POST("/:id/end", middleware.RBACAuthorize(rbacService, "allowance", "update"), handler.End)
		policies.DELETE("/:id", middleware.RBACAuthorize(rbacService, "allowance", "delete"), handler.Delete)
	}
}
