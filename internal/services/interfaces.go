package services

import (
	"context"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/transport/dto"
)

// TokenPair is an access token with its matching refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService defines account and session business logic.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*TokenPair, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) error
	Deactivate(ctx context.Context, userID int64) error
}

// Authorizer decides which capabilities an account holds.
type Authorizer interface {
	CanManagePostings(user *models.User) bool
}

// PostingDetail is a posting together with a few related ones.
type PostingDetail struct {
	Posting *models.Posting
	Related []models.RelatedPosting
}

// PostingService defines job posting search and authoring.
type PostingService interface {
	Search(ctx context.Context, req *dto.SearchJobsRequest) (*Page[models.Posting], error)
	GetDetail(ctx context.Context, id int64) (*PostingDetail, error)
	Create(ctx context.Context, req *dto.CreateJobRequest) (int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateJobRequest) error
	Delete(ctx context.Context, id int64) error
}

// UploadedFile is a resume attached to an application form.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ApplyInput is an application request. Either ResumeID or File must be set.
type ApplyInput struct {
	PostingID int64
	ResumeID  *int64
	File      *UploadedFile
}

// ApplicationService defines job application business logic.
type ApplicationService interface {
	Apply(ctx context.Context, userID int64, in ApplyInput) (int64, error)
	Cancel(ctx context.Context, userID, applicationID int64) error
	List(ctx context.Context, userID int64, req *dto.ListApplicationsRequest) (*Page[models.ApplicationSummary], error)
}

// BookmarkService defines bookmark toggling and listing.
type BookmarkService interface {
	Toggle(ctx context.Context, userID, postingID int64) (bool, error)
	List(ctx context.Context, userID int64, req *dto.ListBookmarksRequest) (*Page[models.BookmarkedPosting], error)
}

// ResumeService lists a user's stored resumes.
type ResumeService interface {
	List(ctx context.Context, userID int64) ([]models.Resume, error)
}
