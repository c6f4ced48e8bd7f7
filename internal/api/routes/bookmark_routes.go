package routes

import (
	"github.com/bjl5029/WSD-3/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookmarkRoutes registers bookmark and resume routes. All of them need a user.
func RegisterBookmarkRoutes(rg *gin.RouterGroup, bookmarkHandler handlers.BookmarkHandlerInterface, authMiddleware gin.HandlerFunc) {
	bookmarks := rg.Group("/bookmarks")
	bookmarks.Use(authMiddleware)
	{
		bookmarks.POST("", bookmarkHandler.ToggleBookmark)
		bookmarks.GET("", bookmarkHandler.ListBookmarks)
	}

	rg.GET("/resumes", authMiddleware, bookmarkHandler.ListResumes)
}
