package auth

import (
	"go-rateb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", middleware.RateLimit(0.5, 5), handler.Login)
		authGroup.POST("/refresh", handler.RefreshToken)
		authGroup.GET("/me", middleware.AuthMiddleware(), handler.Me)
		authGroup.POST("/logout", middleware.AuthMiddleware(), handler.Logout)
		authGroup.POST("/register",
			middleware.AuthMiddleware(),
			middleware.RBACAuthorize(rbacService, "user", "create"),
			handler.Register,
		)
	}
}
