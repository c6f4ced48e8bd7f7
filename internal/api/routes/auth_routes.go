package routes

import (
	"github.com/bjl5029/WSD-3/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account and token routes under /auth.
func RegisterAuthRoutes(rg *gin.RouterGroup, authHandler handlers.AuthHandlerInterface, authMiddleware, loginLimit gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", loginLimit, authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		auth.GET("/profile", authMiddleware, authHandler.GetProfile)
		auth.PUT("/profile", authMiddleware, authHandler.UpdateProfile)
		auth.DELETE("/delete", authMiddleware, authHandler.DeleteAccount)
	}
}
