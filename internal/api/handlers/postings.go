package handlers

import (
	"net/http"
	"strings"

	"github.com/bjl5029/WSD-3/internal/services"
	"github.com/bjl5029/WSD-3/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"
)

// PostingHandler holds dependencies for job posting operations.
type PostingHandler struct {
	service   services.PostingService
	validator *validator.Validate
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(service services.PostingService, validate *validator.Validate) *PostingHandler {
	return &PostingHandler{service: service, validator: validate}
}

// bindListParam reads a repeated query parameter. Each value may also hold a
// comma-separated list.
func bindListParam(c *gin.Context, name string) ([]string, error) {
	var raw []string
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &raw); err != nil {
		return nil, err
	}
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out, nil
}

// SearchJobs godoc
//
//	@Summary		Search job postings
//	@Description	Lists active postings matching every given filter, 20 per page.
//	@Tags			jobs
//	@Produce		json
//	@Param			keyword			query		string		false	"Title or description substring"
//	@Param			company			query		string		false	"Company name substring"
//	@Param			employment_type	query		string		false	"Exact employment type"
//	@Param			position		query		string		false	"Title substring"
//	@Param			salary_info		query		string		false	"Salary text substring"
//	@Param			location		query		string		false	"City or district substring"
//	@Param			job_categories	query		[]string	false	"Category names"
//	@Param			tech_stacks		query		[]string	false	"Tech stack names, case-insensitive"
//	@Param			sort			query		string		false	"created_at_desc, created_at_asc or view_count_desc"
//	@Param			page			query		int			false	"Page number, from 1"
//	@Success		200				{object}	dto.PageResponse[dto.JobResponse]
//	@Failure		400				{object}	dto.ErrorResponse
//	@Router			/jobs [get]
func (h *PostingHandler) SearchJobs(c *gin.Context) {
	var req dto.SearchJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	var err error
	if req.JobCategories, err = bindListParam(c, "job_categories"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if req.TechStacks, err = bindListParam(c, "tech_stacks"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.service.Search(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "SearchJobs", err, "Failed to retrieve job postings")
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, dto.NewJobResponses(page.Items)))
}

// GetJob godoc
//
//	@Summary		Get a job posting
//	@Description	Returns the posting with up to five related postings and counts the view.
//	@Tags			jobs
//	@Produce		json
//	@Param			id	path		int	true	"Posting ID"
//	@Success		200	{object}	dto.JobDetailResponse
//	@Failure		404	{object}	dto.ErrorResponse	"Job not found"
//	@Router			/jobs/{id} [get]
func (h *PostingHandler) GetJob(c *gin.Context) {
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetJob", err, "Failed to retrieve job posting")
		return
	}
	c.JSON(http.StatusOK, dto.JobDetailResponse{
		Job:     dto.NewJobResponse(detail.Posting),
		Related: detail.Related,
	})
}

// CreateJob godoc
//
//	@Summary		Create a job posting
//	@Tags			jobs
//	@Accept			json
//	@Produce		json
//	@Param			job	body		dto.CreateJobRequest	true	"Posting"
//	@Success		200	{object}	dto.CreateJobResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		403	{object}	dto.ErrorResponse	"Not authorized"
//	@Failure		404	{object}	dto.ErrorResponse	"Company not found"
//	@Router			/jobs [post]
//	@Security		BearerAuth
func (h *PostingHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !validate(c, h.validator, req) {
		return
	}

	id, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "CreateJob", err, "Failed to create job posting")
		return
	}
	c.JSON(http.StatusOK, dto.CreateJobResponse{Detail: "Job posting created successfully", PostingID: id})
}

// UpdateJob godoc
//
//	@Summary		Update a job posting
//	@Description	Partial update. Tech stacks and categories, when given, replace the current sets.
//	@Tags			jobs
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int						true	"Posting ID"
//	@Param			job	body		dto.UpdateJobRequest	true	"Fields to change"
//	@Success		200	{object}	dto.MessageResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse	"Job posting not found"
//	@Router			/jobs/{id} [put]
//	@Security		BearerAuth
func (h *PostingHandler) UpdateJob(c *gin.Context) {
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !validate(c, h.validator, req) {
		return
	}

	if err := h.service.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, "UpdateJob", err, "Failed to update job posting")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Detail: "Job posting updated successfully"})
}

// DeleteJob godoc
//
//	@Summary		Delete a job posting
//	@Tags			jobs
//	@Produce		json
//	@Param			id	path		int	true	"Posting ID"
//	@Success		200	{object}	dto.MessageResponse
//	@Failure		404	{object}	dto.ErrorResponse	"Job posting not found"
//	@Router			/jobs/{id} [delete]
//	@Security		BearerAuth
func (h *PostingHandler) DeleteJob(c *gin.Context) {
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "DeleteJob", err, "Failed to delete job posting")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Detail: "Job deleted"})
}
