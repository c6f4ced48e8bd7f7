package handlers

import (
	"log"
	"net/http"

	"github.com/bjl5029/WSD-3/internal/api/middleware"
	"github.com/bjl5029/WSD-3/internal/services"
	"github.com/bjl5029/WSD-3/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BookmarkHandler serves bookmarks and the caller's resumes.
type BookmarkHandler struct {
	bookmarks services.BookmarkService
	resumes   services.ResumeService
	validator *validator.Validate
}

func NewBookmarkHandler(bookmarks services.BookmarkService, resumes services.ResumeService, validate *validator.Validate) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks, resumes: resumes, validator: validate}
}

// ToggleBookmark godoc
//
//	@Summary		Add or remove a bookmark
//	@Tags			bookmarks
//	@Accept			json
//	@Produce		json
//	@Param			bookmark	body		dto.ToggleBookmarkRequest	true	"Posting to toggle"
//	@Success		200			{object}	dto.MessageResponse			"Bookmark added or Bookmark removed"
//	@Failure		404			{object}	dto.ErrorResponse			"Job posting not found"
//	@Router			/bookmarks [post]
//	@Security		BearerAuth
func (h *BookmarkHandler) ToggleBookmark(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		log.Printf("ToggleBookmark: Error getting user from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ToggleBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !validate(c, h.validator, req) {
		return
	}

	added, err := h.bookmarks.Toggle(c.Request.Context(), user.ID, req.PostingID)
	if err != nil {
		respondError(c, "ToggleBookmark", err, "Failed to toggle bookmark")
		return
	}
	detail := "Bookmark removed"
	if added {
		detail = "Bookmark added"
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Detail: detail})
}

// ListBookmarks godoc
//
//	@Summary		List the caller's bookmarks
//	@Tags			bookmarks
//	@Produce		json
//	@Param			sort	query		string	false	"asc or desc by bookmark time"
//	@Param			page	query		int		false	"Page number, from 1"
//	@Success		200		{object}	dto.PageResponse[dto.BookmarkResponse]
//	@Router			/bookmarks [get]
//	@Security		BearerAuth
func (h *BookmarkHandler) ListBookmarks(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		log.Printf("ListBookmarks: Error getting user from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListBookmarksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if !validate(c, h.validator, req) {
		return
	}

	page, err := h.bookmarks.List(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, "ListBookmarks", err, "Failed to retrieve bookmarks")
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, dto.NewBookmarkResponses(page.Items)))
}

// ListResumes godoc
//
//	@Summary		List the caller's resumes
//	@Tags			resumes
//	@Produce		json
//	@Success		200	{array}	dto.ResumeResponse
//	@Router			/resumes [get]
//	@Security		BearerAuth
func (h *BookmarkHandler) ListResumes(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		log.Printf("ListResumes: Error getting user from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resumes, err := h.resumes.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, "ListResumes", err, "Failed to retrieve resumes")
		return
	}
	c.JSON(http.StatusOK, dto.NewResumeResponses(resumes))
}
