package approval

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	approvals := r.Group("/approvals")
	approvals.Use(middleware.AuthMiddleware())
	{
		approvals.PUT("/matrix", middleware.RBACAuthorize(rbacService, "approval", "configure"), handler.ConfigureMatrix)
		approvals.GET("/matrix", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetMatrix)
		approvals.POST("/runs/:runId/approve", middleware.RBACAuthorize(rbacService, "approval", "act"), handler.Approve)
		approvals.POST("/runs/:runId/override", middleware.RBACAuthorize(rbacService, "approval", "act"), handler.Override)
		approvals.POST("/runs/:runId/rollback", middleware.RBACAuthorize(rbacService, "approval", "act"), handler.Rollback)
		approvals.GET("/runs/:runId/status", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.RunStatus)
		approvals.GET("/report", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GovernanceReport)
	}
}
