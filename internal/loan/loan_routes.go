package loan

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	loans := r.Group("/loans")
	loans.Use(middleware.AuthMiddleware())
	{
		loans.POST("", middleware.RBACAuthorize(rbacService, "loan", "create"), handler.Create)
		loans.GET("", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetAll)
		loans.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetByEmployee)
		loans.GET("/:id", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetByID)
		loans.POST("/:id/reschedule", middleware.RBACAuthorize(rbacService, "loan", "update"), handler.Reschedule)
		loans.POST("/:id/skip", middleware.RBACAuthorize(rbacService, "loan", "update"), handler.SkipInstallment)
		loans.POST("/:id/settle", middleware.RBACAuthorize(rbacService, "loan", "update"), handler.Settle)
	}
}
