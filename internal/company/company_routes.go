package company

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	companies := r.Group("/company")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.GET("/profile", middleware.RBACAuthorize(rbacService, "company", "read"), handler.GetProfile)
		companies.PUT("/profile", middleware.RBACAuthorize(rbacService, "company", "update"), handler.UpdateProfile)
		companies.GET("/payroll-settings", middleware.RBACAuthorize(rbacService, "company", "read"), handler.GetSettings)
		companies.PUT("/payroll-settings", middleware.RBACAuthorize(rbacService, "company", "update"), handler.UpsertSettings)
	}
}
