package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/bjl5029/WSD-3/internal/api/middleware"
	"github.com/bjl5029/WSD-3/internal/services"
	"github.com/bjl5029/WSD-3/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// MaxResumeBytes caps an uploaded resume.
const MaxResumeBytes = 10 << 20

// ApplicationHandler holds dependencies for job application operations.
type ApplicationHandler struct {
	service   services.ApplicationService
	validator *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(service services.ApplicationService, validate *validator.Validate) *ApplicationHandler {
	return &ApplicationHandler{service: service, validator: validate}
}

var errResumeTooLarge = errors.New("resume file too large")

// readResumeFile returns the uploaded resume_file part, or nil when none was sent.
func readResumeFile(c *gin.Context) (*services.UploadedFile, error) {
	header, err := c.FormFile("resume_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	if header.Size > MaxResumeBytes {
		return nil, errResumeTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxResumeBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxResumeBytes {
		return nil, errResumeTooLarge
	}
	return &services.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Apply godoc
//
//	@Summary		Apply to a job posting
//	@Description	Either resume_id or a PDF resume_file is required. An uploaded file wins.
//	@Tags			applications
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			posting_id	formData	int		true	"Posting ID"
//	@Param			resume_id	formData	int		false	"Stored resume ID"
//	@Param			resume_file	formData	file	false	"PDF resume"
//	@Success		200			{object}	dto.ApplyResponse
//	@Failure		400			{object}	dto.ErrorResponse	"Validation failed or already applied"
//	@Failure		403			{object}	dto.ErrorResponse	"Resume not owned"
//	@Failure		404			{object}	dto.ErrorResponse	"Job posting not found"
//	@Router			/applications [post]
//	@Security		BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		log.Printf("Apply: Error getting user from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ApplyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	// An empty resume_id field binds as zero.
	if req.ResumeID != nil && *req.ResumeID == 0 {
		req.ResumeID = nil
	}
	if !validate(c, h.validator, req) {
		return
	}

	file, err := readResumeFile(c)
	if err != nil {
		if errors.Is(err, errResumeTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Resume file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resume file: " + err.Error()})
		return
	}

	id, err := h.service.Apply(c.Request.Context(), user.ID, services.ApplyInput{
		PostingID: req.PostingID,
		ResumeID:  req.ResumeID,
		File:      file,
	})
	if err != nil {
		respondError(c, "Apply", err, "Failed to submit application")
		return
	}
	c.JSON(http.StatusOK, dto.ApplyResponse{Detail: "Application submitted successfully", ApplicationID: id})
}

// CancelApplication godoc
//
//	@Summary		Cancel an application
//	@Tags			applications
//	@Produce		json
//	@Param			id	path		int	true	"Application ID"
//	@Success		200	{object}	dto.MessageResponse
//	@Failure		403	{object}	dto.ErrorResponse	"Not your application"
//	@Failure		404	{object}	dto.ErrorResponse	"Application not found"
//	@Router			/applications/{id} [delete]
//	@Security		BearerAuth
func (h *ApplicationHandler) CancelApplication(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		log.Printf("CancelApplication: Error getting user from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := pathID(c, "id", "application")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, "CancelApplication", err, "Failed to cancel application")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Detail: "Application canceled"})
}

// ListApplications godoc
//
//	@Summary		List the caller's applications
//	@Tags			applications
//	@Produce		json
//	@Param			status	query		string	false	"pending, reviewed, accepted or rejected"
//	@Param			sort	query		string	false	"asc or desc by applied_at"
//	@Param			page	query		int		false	"Page number, from 1"
//	@Success		200		{object}	dto.PageResponse[dto.ApplicationResponse]
//	@Router			/applications [get]
//	@Security		BearerAuth
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		log.Printf("ListApplications: Error getting user from context: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if !validate(c, h.validator, req) {
		return
	}

	page, err := h.service.List(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, "ListApplications", err, "Failed to retrieve applications")
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, dto.NewApplicationResponses(page.Items)))
}
