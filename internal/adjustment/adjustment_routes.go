package adjustment

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	adjustments := r.Group("/adjustments")
	adjustments.Use(middleware.AuthMiddleware())
	{
		adjustments.PUT("", middleware.RBACAuthorize(rbacService, "adjustment", "update"), handler.Upsert)
		adjustments.GET("", middleware.RBACAuthorize(rbacService, "adjustment", "read"), handler.GetForPeriod)
		adjustments.DELETE("/:id", middleware.RBACAuthorize(rbacService, "adjustment", "delete"), handler.Delete)
	}
}
