package handlers_test

import (
	"context"

	"github.com/bjl5029/WSD-3/internal/api/middleware"
	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/services"
	"github.com/bjl5029/WSD-3/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of services.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*services.TokenPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*services.TokenPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockAuthService) Deactivate(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

var _ services.AuthService = (*MockAuthService)(nil)

// MockPostingService is a mock implementation of services.PostingService
type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) Search(ctx context.Context, req *dto.SearchJobsRequest) (*services.Page[models.Posting], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Page[models.Posting]), args.Error(1)
}

func (m *MockPostingService) GetDetail(ctx context.Context, id int64) (*services.PostingDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PostingDetail), args.Error(1)
}

func (m *MockPostingService) Create(ctx context.Context, req *dto.CreateJobRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostingService) Update(ctx context.Context, id int64, req *dto.UpdateJobRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *MockPostingService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ services.PostingService = (*MockPostingService)(nil)

// MockApplicationService is a mock implementation of services.ApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Apply(ctx context.Context, userID int64, in services.ApplyInput) (int64, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationService) Cancel(ctx context.Context, userID, applicationID int64) error {
	return m.Called(ctx, userID, applicationID).Error(0)
}

func (m *MockApplicationService) List(ctx context.Context, userID int64, req *dto.ListApplicationsRequest) (*services.Page[models.ApplicationSummary], error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Page[models.ApplicationSummary]), args.Error(1)
}

var _ services.ApplicationService = (*MockApplicationService)(nil)

// MockBookmarkService is a mock implementation of services.BookmarkService
type MockBookmarkService struct {
	mock.Mock
}

func (m *MockBookmarkService) Toggle(ctx context.Context, userID, postingID int64) (bool, error) {
	args := m.Called(ctx, userID, postingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookmarkService) List(ctx context.Context, userID int64, req *dto.ListBookmarksRequest) (*services.Page[models.BookmarkedPosting], error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Page[models.BookmarkedPosting]), args.Error(1)
}

var _ services.BookmarkService = (*MockBookmarkService)(nil)

// MockResumeService is a mock implementation of services.ResumeService
type MockResumeService struct {
	mock.Mock
}

func (m *MockResumeService) List(ctx context.Context, userID int64) ([]models.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Resume), args.Error(1)
}

var _ services.ResumeService = (*MockResumeService)(nil)

func svcErr(kind error, message string) error {
	return &services.Error{Kind: kind, Message: message}
}

// asUser stands in for the auth middleware.
func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetUserInContext(c, user)
		c.Next()
	}
}

func testUser() *models.User {
	return &models.User{ID: 7, Email: "kim@example.com", Name: "Kim", Status: models.UserStatusActive, Role: models.UserRoleUser}
}
