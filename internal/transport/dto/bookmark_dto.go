package dto

import (
	"time"

	"github.com/bjl5029/WSD-3/internal/models"
)

// ToggleBookmarkRequest names the posting whose bookmark flips.
type ToggleBookmarkRequest struct {
	PostingID int64 `json:"posting_id" validate:"required,gt=0"`
}

// ListBookmarksRequest defines the GET /bookmarks query.
type ListBookmarksRequest struct {
	Sort string `form:"sort" validate:"omitempty,oneof=asc desc"`
	Page int    `form:"page"`
}

type BookmarkResponse struct {
	BookmarkID   int64       `json:"bookmark_id"`
	BookmarkedAt time.Time   `json:"bookmarked_at"`
	Job          JobResponse `json:"job"`
}

func NewBookmarkResponses(bookmarks []models.BookmarkedPosting) []BookmarkResponse {
	out := make([]BookmarkResponse, len(bookmarks))
	for i := range bookmarks {
		out[i] = BookmarkResponse{
			BookmarkID:   bookmarks[i].BookmarkID,
			BookmarkedAt: bookmarks[i].CreatedAt,
			Job:          NewJobResponse(&bookmarks[i].Posting),
		}
	}
	return out
}

type ResumeResponse struct {
	ResumeID    int64     `json:"resume_id"`
	Title       string    `json:"title"`
	ContentType *string   `json:"content_type"`
	IsPrimary   bool      `json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewResumeResponses(resumes []models.Resume) []ResumeResponse {
	out := make([]ResumeResponse, len(resumes))
	for i, r := range resumes {
		out[i] = ResumeResponse{
			ResumeID:    r.ID,
			Title:       r.Title,
			ContentType: r.ContentType,
			IsPrimary:   r.IsPrimary,
			CreatedAt:   r.CreatedAt,
		}
	}
	return out
}
