package dto

import (
	"time"

	"github.com/bjl5029/WSD-3/internal/models"
)

// SearchJobsRequest holds the GET /jobs query. Every filter is optional.
type SearchJobsRequest struct {
	Keyword        string   `form:"keyword"`
	Company        string   `form:"company"`
	EmploymentType string   `form:"employment_type"`
	Position       string   `form:"position"`
	SalaryInfo     string   `form:"salary_info"`
	Location       string   `form:"location"`
	JobCategories  []string `form:"job_categories"`
	TechStacks     []string `form:"tech_stacks"`
	Sort           string   `form:"sort"`
	Page           int      `form:"page"`
}

// LocationInput names a location by city and optional district.
type LocationInput struct {
	City     string  `json:"city" validate:"required"`
	District *string `json:"district,omitempty"`
}

// CreateJobRequest defines the structure for creating a posting.
type CreateJobRequest struct {
	CompanyID       int64          `json:"company_id" validate:"required,gt=0"`
	Title           string         `json:"title" validate:"required"`
	JobDescription  string         `json:"job_description" validate:"required"`
	ExperienceLevel *string        `json:"experience_level,omitempty"`
	EducationLevel  *string        `json:"education_level,omitempty"`
	EmploymentType  *string        `json:"employment_type,omitempty"`
	SalaryInfo      *string        `json:"salary_info,omitempty"`
	Location        *LocationInput `json:"location,omitempty" validate:"omitempty"`
	DeadlineDate    *string        `json:"deadline_date,omitempty"`
	TechStacks      []string       `json:"tech_stacks,omitempty" validate:"omitempty,dive,required"`
	JobCategories   []string       `json:"job_categories,omitempty" validate:"omitempty,dive,required"`
}

// UpdateJobRequest is a partial update. Nil fields stay as they are; a non-nil tag list
// replaces the current set.
type UpdateJobRequest struct {
	Title           *string        `json:"title,omitempty" validate:"omitempty,min=1"`
	JobDescription  *string        `json:"job_description,omitempty"`
	ExperienceLevel *string        `json:"experience_level,omitempty"`
	EducationLevel  *string        `json:"education_level,omitempty"`
	EmploymentType  *string        `json:"employment_type,omitempty"`
	SalaryInfo      *string        `json:"salary_info,omitempty"`
	Location        *LocationInput `json:"location,omitempty" validate:"omitempty"`
	DeadlineDate    *string        `json:"deadline_date,omitempty"`
	Status          *string        `json:"status,omitempty" validate:"omitempty,oneof=active closed deleted"`
	TechStacks      *[]string      `json:"tech_stacks,omitempty" validate:"omitempty,dive,required"`
	JobCategories   *[]string      `json:"job_categories,omitempty" validate:"omitempty,dive,required"`
}

// JobResponse defines the posting data returned to the client.
type JobResponse struct {
	PostingID       int64                `json:"posting_id"`
	CompanyID       int64                `json:"company_id"`
	CompanyName     string               `json:"company_name"`
	Title           string               `json:"title"`
	JobDescription  *string              `json:"job_description"`
	ExperienceLevel *string              `json:"experience_level"`
	EducationLevel  *string              `json:"education_level"`
	EmploymentType  *string              `json:"employment_type"`
	SalaryInfo      *string              `json:"salary_info"`
	Location        *string              `json:"location"`
	DeadlineDate    *string              `json:"deadline_date"`
	Status          models.PostingStatus `json:"status"`
	ViewCount       int64                `json:"view_count"`
	CreatedAt       time.Time            `json:"created_at"`
	TechStacks      []string             `json:"tech_stacks"`
	JobCategories   []string             `json:"job_categories"`
}

func NewJobResponse(p *models.Posting) JobResponse {
	resp := JobResponse{
		PostingID:       p.ID,
		CompanyID:       p.CompanyID,
		CompanyName:     p.CompanyName,
		Title:           p.Title,
		JobDescription:  p.JobDescription,
		ExperienceLevel: p.ExperienceLevel,
		EducationLevel:  p.EducationLevel,
		EmploymentType:  p.EmploymentType,
		SalaryInfo:      p.SalaryInfo,
		Location:        p.LocationLabel(),
		DeadlineDate:    p.DeadlineDate,
		Status:          p.Status,
		ViewCount:       p.ViewCount,
		CreatedAt:       p.CreatedAt,
		TechStacks:      p.TechStacks,
		JobCategories:   p.JobCategories,
	}
	if resp.TechStacks == nil {
		resp.TechStacks = []string{}
	}
	if resp.JobCategories == nil {
		resp.JobCategories = []string{}
	}
	return resp
}

func NewJobResponses(postings []models.Posting) []JobResponse {
	out := make([]JobResponse, len(postings))
	for i := range postings {
		out[i] = NewJobResponse(&postings[i])
	}
	return out
}

// JobDetailResponse is the GET /jobs/{id} body.
type JobDetailResponse struct {
	Job     JobResponse             `json:"job"`
	Related []models.RelatedPosting `json:"related"`
}

// CreateJobResponse acknowledges a created posting.
type CreateJobResponse struct {
	Detail    string `json:"detail"`
	PostingID int64  `json:"posting_id"`
}
