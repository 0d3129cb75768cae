package payroll

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware())
	{
		payroll.POST("/periods", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.CreatePeriod)
		payroll.GET("/periods", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.ListPeriods)
		payroll.POST("/periods/:periodId/calculate", middleware.RBACAuthorize(rbacService, "payroll", "calculate"), handler.Calculate)
		payroll.GET("/runs", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.ListRuns)
		payroll.GET("/runs/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetRun)
		payroll.POST("/runs/:id/approve", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Approve)
		payroll.POST("/runs/:id/lock", middleware.RBACAuthorize(rbacService, "payroll", "lock"), handler.Lock)
	}
}
