package dto

import (
	"time"

	"github.com/bjl5029/WSD-3/internal/models"
)

// ApplyRequest holds the non-file fields of the multipart application form.
type ApplyRequest struct {
	PostingID int64  `form:"posting_id" validate:"required,gt=0"`
	ResumeID  *int64 `form:"resume_id" validate:"omitempty,gt=0"`
}

// ApplyResponse acknowledges a submitted application.
type ApplyResponse struct {
	Detail        string `json:"detail"`
	ApplicationID int64  `json:"application_id"`
}

// ListApplicationsRequest defines the GET /applications query.
type ListApplicationsRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=pending reviewed accepted rejected"`
	Sort   string `form:"sort" validate:"omitempty,oneof=asc desc"`
	Page   int    `form:"page"`
}

// ApplicationResponse is one row of the caller's application list.
type ApplicationResponse struct {
	ApplicationID int64                    `json:"application_id"`
	PostingID     int64                    `json:"posting_id"`
	Title         string                   `json:"title"`
	Status        models.ApplicationStatus `json:"status"`
	AppliedAt     time.Time                `json:"applied_at"`
}

func NewApplicationResponses(apps []models.ApplicationSummary) []ApplicationResponse {
	out := make([]ApplicationResponse, len(apps))
	for i, a := range apps {
		out[i] = ApplicationResponse{
			ApplicationID: a.ID,
			PostingID:     a.PostingID,
			Title:         a.Title,
			Status:        a.Status,
			AppliedAt:     a.AppliedAt,
		}
	}
	return out
}

// PageResponse wraps one page of a listing.
type PageResponse[T any] struct {
	Items       []T `json:"items"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
	PageSize    int `json:"page_size"`
	CurrentPage int `json:"current_page"`
}
