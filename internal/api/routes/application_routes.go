package routes

import (
	"github.com/bjl5029/WSD-3/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterApplicationRoutes registers the caller's application routes.
func RegisterApplicationRoutes(rg *gin.RouterGroup, applicationHandler handlers.ApplicationHandlerInterface, authMiddleware gin.HandlerFunc) {
	applications := rg.Group("/applications")
	applications.Use(authMiddleware)
	{
		applications.POST("", applicationHandler.Apply)
		applications.GET("", applicationHandler.ListApplications)
		applications.DELETE("/:id", applicationHandler.CancelApplication)
	}
}
