package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"time"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"
	"github.com/bjl5029/WSD-3/internal/transport/dto"

	"github.com/gabriel-vasile/mimetype"
)

const pdfMIME = "application/pdf"

type applicationService struct {
	db           storage.TxBeginner
	applications storage.ApplicationRepository
	resumes      storage.ResumeRepository
	postings     storage.PostingRepository
	now          func() time.Time
}

// NewApplicationService creates a new instance of ApplicationService.
func NewApplicationService(db storage.TxBeginner, applications storage.ApplicationRepository, resumes storage.ResumeRepository, postings storage.PostingRepository) ApplicationService {
	return &applicationService{
		db:           db,
		applications: applications,
		resumes:      resumes,
		postings:     postings,
		now:          time.Now,
	}
}

// isPDF requires both the declared type and the sniffed content to be PDF.
func isPDF(file *UploadedFile) bool {
	declared, _, err := mime.ParseMediaType(file.ContentType)
	if err != nil || declared != pdfMIME {
		return false
	}
	return mimetype.Detect(file.Data).Is(pdfMIME)
}

// Apply submits an application. An uploaded file takes precedence over ResumeID and is
// stored as a new non-primary resume in the same transaction as the application.
func (s *applicationService) Apply(ctx context.Context, userID int64, in ApplyInput) (int64, error) {
	exists, err := s.postings.Exists(ctx, in.PostingID)
	if err != nil {
		return 0, MapRepoError(err, fmt.Sprintf("checking posting %d", in.PostingID))
	}
	if !exists {
		return 0, newError(ErrNotFound, "Job posting not found")
	}

	applied, err := s.applications.Exists(ctx, userID, in.PostingID)
	if err != nil {
		return 0, MapRepoError(err, "checking existing application")
	}
	if applied {
		return 0, newError(ErrConflict, "Already applied for this job posting.")
	}

	if in.ResumeID == nil && in.File == nil {
		return 0, newError(ErrValidation, "Either resume_id or resume_file must be provided.")
	}
	if in.File != nil && !isPDF(in.File) {
		log.Printf("ApplyToPosting: rejected upload %q from user %d with type %q", in.File.Filename, userID, in.File.ContentType)
		return 0, newError(ErrValidation, "Only PDF files are allowed.")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("ApplyToPosting: Error beginning transaction: %v", err)
		return 0, MapRepoError(err, "starting transaction")
	}
	defer tx.Rollback(ctx)

	resumes := s.resumes.WithTx(tx)
	applications := s.applications.WithTx(tx)

	var resumeID int64
	if in.File != nil {
		contentType := pdfMIME
		resumeID, err = resumes.Create(ctx, &models.Resume{
			UserID:      userID,
			Title:       "Uploaded Resume " + s.now().UTC().Format("2006-01-02 15:04:05"),
			Content:     in.File.Data,
			ContentType: &contentType,
			IsPrimary:   false,
		})
		if err != nil {
			return 0, MapRepoError(err, "storing uploaded resume")
		}
	} else {
		resume, err := resumes.GetOwned(ctx, *in.ResumeID, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return 0, newError(ErrForbidden, "Not authorized to use this resume or it doesn't exist.")
			}
			return 0, MapRepoError(err, "fetching resume")
		}
		resumeID = resume.ID
	}

	applicationID, err := applications.Create(ctx, userID, in.PostingID, &resumeID)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return 0, newError(ErrConflict, "Already applied for this job posting.")
		}
		if errors.Is(err, storage.ErrNotFound) {
			return 0, newError(ErrNotFound, "Job posting not found")
		}
		return 0, MapRepoError(err, "creating application")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("ApplyToPosting: Error committing transaction: %v", err)
		return 0, MapRepoError(err, "committing application")
	}
	log.Printf("User %d applied to posting %d (application %d)", userID, in.PostingID, applicationID)
	return applicationID, nil
}

// Cancel deletes one of the caller's applications.
func (s *applicationService) Cancel(ctx context.Context, userID, applicationID int64) error {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(ErrNotFound, "Application not found")
		}
		return MapRepoError(err, fmt.Sprintf("fetching application %d", applicationID))
	}
	if application.UserID != userID {
		log.Printf("CancelApplication: Forbidden attempt by user %d on application %d owned by %d", userID, applicationID, application.UserID)
		return newError(ErrForbidden, "Not your application")
	}
	if err := s.applications.Delete(ctx, applicationID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(ErrNotFound, "Application not found")
		}
		return MapRepoError(err, fmt.Sprintf("deleting application %d", applicationID))
	}
	return nil
}

// List pages through the caller's applications, newest first unless Sort is "asc".
func (s *applicationService) List(ctx context.Context, userID int64, req *dto.ListApplicationsRequest) (*Page[models.ApplicationSummary], error) {
	page, offset := normalizePage(req.Page)
	filter := storage.ApplicationListFilter{
		UserID:    userID,
		Ascending: req.Sort == "asc",
		Limit:     PageSize,
		Offset:    offset,
	}
	if req.Status != "" {
		var status models.ApplicationStatus
		if err := status.Scan(req.Status); err != nil {
			return nil, newError(ErrValidation, "status must be one of pending, reviewed, accepted, rejected")
		}
		filter.Status = &status
	}

	items, total, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("listing applications of user %d", userID))
	}
	return newPage(items, total, page), nil
}
