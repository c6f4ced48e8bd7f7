package storage

import (
	"context"
	"time"

	"github.com/bjl5029/WSD-3/internal/models"

	"github.com/jackc/pgx/v5"
)

// TxBeginner starts a transaction. It is satisfied by *database.DB.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	BirthDate    *time.Time
}

// ProfileParams replaces the editable profile fields as a whole.
type ProfileParams struct {
	Name      string
	Phone     *string
	BirthDate *time.Time
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	WithTx(tx pgx.Tx) UserRepository
	Create(ctx context.Context, params CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, params ProfileParams) error
	TouchLastLogin(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status models.UserStatus) error
}

// CatalogRepository defines the natural-key upserts for companies, locations,
// tech stacks and job categories. Upserts never fail on a uniqueness race.
type CatalogRepository interface {
	WithTx(tx pgx.Tx) CatalogRepository
	UpsertCompany(ctx context.Context, name string) (int64, error)
	CompanyExists(ctx context.Context, id int64) (bool, error)
	UpsertLocation(ctx context.Context, city string, district *string) (int64, error)
	UpsertTechStack(ctx context.Context, name, category string) (int64, error)
	FindTechStack(ctx context.Context, name string) (int64, error)
	ListTechStacks(ctx context.Context) ([]models.TechStack, error)
	UpsertCategory(ctx context.Context, name string) (int64, error)
	FindCategory(ctx context.Context, name string) (int64, error)
}

type PostingSort string

const (
	SortCreatedDesc   PostingSort = "created_at_desc"
	SortCreatedAsc    PostingSort = "created_at_asc"
	SortViewCountDesc PostingSort = "view_count_desc"
)

// ParsePostingSort falls back to SortCreatedDesc for unknown values.
func ParsePostingSort(s string) PostingSort {
	switch PostingSort(s) {
	case SortCreatedAsc, SortViewCountDesc:
		return PostingSort(s)
	default:
		return SortCreatedDesc
	}
}

// PostingFilter holds the search predicates. Empty fields do not constrain the result.
type PostingFilter struct {
	Keyword        string
	Company        string
	EmploymentType string
	Position       string
	SalaryInfo     string
	Location       string
	JobCategories  []string
	TechStacks     []string
	Sort           PostingSort
	Limit          int
	Offset         int
}

type CreatePostingParams struct {
	CompanyID       int64
	Title           string
	JobDescription  *string
	ExperienceLevel *string
	EducationLevel  *string
	EmploymentType  *string
	SalaryInfo      *string
	LocationID      *int64
	DeadlineDate    *string
}

// UpdatePostingParams is a partial update; nil fields are left unchanged.
type UpdatePostingParams struct {
	Title           *string
	JobDescription  *string
	ExperienceLevel *string
	EducationLevel  *string
	EmploymentType  *string
	SalaryInfo      *string
	LocationID      *int64
	DeadlineDate    *string
	Status          *models.PostingStatus
}

// PostingRepository defines the interface for job posting data operations.
type PostingRepository interface {
	WithTx(tx pgx.Tx) PostingRepository
	Search(ctx context.Context, filter PostingFilter) ([]models.Posting, int, error)
	IncrementViewCount(ctx context.Context, id int64) (*models.Posting, error)
	Related(ctx context.Context, posting *models.Posting, limit int) ([]models.RelatedPosting, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByCompanyTitle(ctx context.Context, companyID int64, title string) (bool, error)
	Create(ctx context.Context, params CreatePostingParams) (int64, error)
	Update(ctx context.Context, id int64, params UpdatePostingParams) error
	SoftDelete(ctx context.Context, id int64) error
	AttachTechStacks(ctx context.Context, postingID int64, stackIDs []int64) error
	AttachCategories(ctx context.Context, postingID int64, categoryIDs []int64) error
	ReplaceTechStacks(ctx context.Context, postingID int64, stackIDs []int64) error
	ReplaceCategories(ctx context.Context, postingID int64, categoryIDs []int64) error
}

type ApplicationListFilter struct {
	UserID    int64
	Status    *models.ApplicationStatus
	Ascending bool
	Limit     int
	Offset    int
}

// ApplicationRepository defines the interface for job application data operations.
type ApplicationRepository interface {
	WithTx(tx pgx.Tx) ApplicationRepository
	Create(ctx context.Context, userID, postingID int64, resumeID *int64) (int64, error)
	Exists(ctx context.Context, userID, postingID int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ApplicationListFilter) ([]models.ApplicationSummary, int, error)
}

// ResumeRepository defines the interface for resume data operations.
type ResumeRepository interface {
	WithTx(tx pgx.Tx) ResumeRepository
	Create(ctx context.Context, resume *models.Resume) (int64, error)
	GetOwned(ctx context.Context, id, userID int64) (*models.Resume, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Resume, error)
}

// BookmarkRepository defines the interface for bookmark data operations.
type BookmarkRepository interface {
	WithTx(tx pgx.Tx) BookmarkRepository
	Add(ctx context.Context, userID, postingID int64) (bool, error)
	Remove(ctx context.Context, userID, postingID int64) (bool, error)
	List(ctx context.Context, userID int64, ascending bool, limit, offset int) ([]models.BookmarkedPosting, int, error)
}
