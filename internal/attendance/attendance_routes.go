package attendance

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	records := r.Group("/work-records")
	records.Use(middleware.AuthMiddleware())
	{
		records.POST("", middleware.RBACAuthorize(rbacService, "attendance", "create"), handler.Record)
		records.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "attendance", "approve"), handler.Approve)
		records.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetForEmployee)
	}
}
