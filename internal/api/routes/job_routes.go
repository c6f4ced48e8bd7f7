package routes

import (
	"github.com/bjl5029/WSD-3/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes registers the posting routes. Reads are public; writes need an
// authenticated posting manager. searchValidator guards the search query.
func RegisterJobRoutes(
	rg *gin.RouterGroup,
	jobHandler handlers.PostingHandlerInterface,
	authMiddleware, adminOnly, searchValidator gin.HandlerFunc,
) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", searchValidator, jobHandler.SearchJobs)
		jobs.GET("/:id", jobHandler.GetJob)

		jobs.POST("", authMiddleware, adminOnly, jobHandler.CreateJob)
		jobs.PUT("/:id", authMiddleware, adminOnly, jobHandler.UpdateJob)
		jobs.DELETE("/:id", authMiddleware, adminOnly, jobHandler.DeleteJob)
	}
}
