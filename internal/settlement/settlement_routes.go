package settlement

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	settlements := r.Group("/settlements")
	settlements.Use(middleware.AuthMiddleware())
	{
		settlements.POST("/estimate", middleware.RBACAuthorize(rbacService, "settlement", "read"), handler.Estimate)
	}
}
