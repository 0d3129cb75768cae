package export

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	exports := r.Group("/exports")
	exports.Use(middleware.AuthMiddleware())
	{
		exports.POST("", middleware.RBACAuthorize(rbacService, "export", "create"), handler.Enqueue)
		exports.GET("/run/:runId", middleware.RBACAuthorize(rbacService, "export", "read"), handler.ListForRun)
		exports.GET("/:id", middleware.RBACAuthorize(rbacService, "export", "read"), handler.Get)
		exports.GET("/:id/download", middleware.RBACAuthorize(rbacService, "export", "read"), handler.Download)
		exports.POST("/:id/retry", middleware.RBACAuthorize(rbacService, "export", "create"), handler.Retry)
	}
}
