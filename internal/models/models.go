package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

func scanString(value interface{}, kind string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("failed to scan %s: value is not string or []byte", kind)
	}
}

// --- User Status Enum ---
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBlocked  UserStatus = "blocked"
)

// Scan implements the sql.Scanner interface for UserStatus
func (s *UserStatus) Scan(value interface{}) error {
	str, err := scanString(value, "UserStatus")
	if err != nil {
		return err
	}
	switch v := UserStatus(str); v {
	case UserStatusActive, UserStatusInactive, UserStatusBlocked:
		*s = v
		return nil
	default:
		return fmt.Errorf("invalid UserStatus value: %s", str)
	}
}

// Value implements the driver.Valuer interface for UserStatus
func (s UserStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// --- User Role Enum ---
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Scan implements the sql.Scanner interface for UserRole
func (r *UserRole) Scan(value interface{}) error {
	str, err := scanString(value, "UserRole")
	if err != nil {
		return err
	}
	switch v := UserRole(str); v {
	case UserRoleUser, UserRoleAdmin:
		*r = v
		return nil
	default:
		return fmt.Errorf("invalid UserRole value: %s", str)
	}
}

// Value implements the driver.Valuer interface for UserRole
func (r UserRole) Value() (driver.Value, error) {
	return string(r), nil
}

// --- Posting Status Enum ---
type PostingStatus string

const (
	PostingStatusActive  PostingStatus = "active"
	PostingStatusClosed  PostingStatus = "closed"
	PostingStatusDeleted PostingStatus = "deleted"
)

// Scan implements the sql.Scanner interface for PostingStatus
func (s *PostingStatus) Scan(value interface{}) error {
	str, err := scanString(value, "PostingStatus")
	if err != nil {
		return err
	}
	switch v := PostingStatus(str); v {
	case PostingStatusActive, PostingStatusClosed, PostingStatusDeleted:
		*s = v
		return nil
	default:
		return fmt.Errorf("invalid PostingStatus value: %s", str)
	}
}

// Value implements the driver.Valuer interface for PostingStatus
func (s PostingStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// --- Application Status Enum ---
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Scan implements the sql.Scanner interface for ApplicationStatus
func (s *ApplicationStatus) Scan(value interface{}) error {
	str, err := scanString(value, "ApplicationStatus")
	if err != nil {
		return err
	}
	switch v := ApplicationStatus(str); v {
	case ApplicationStatusPending, ApplicationStatusReviewed, ApplicationStatusAccepted, ApplicationStatusRejected:
		*s = v
		return nil
	default:
		return fmt.Errorf("invalid ApplicationStatus value: %s", str)
	}
}

// Value implements the driver.Valuer interface for ApplicationStatus
func (s ApplicationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// User is an account. Status gates every authenticated action; Role grants capabilities.
type User struct {
	ID           int64      `json:"user_id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Name         string     `json:"name" db:"name"`
	Phone        *string    `json:"phone" db:"phone"`
	BirthDate    *time.Time `json:"birth_date" db:"birth_date"`
	Status       UserStatus `json:"status" db:"status"`
	Role         UserRole   `json:"-" db:"role"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the account may act.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

type Company struct {
	ID   int64  `json:"company_id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Location struct {
	ID       int64   `json:"location_id" db:"id"`
	City     string  `json:"city" db:"city"`
	District *string `json:"district" db:"district"`
}

type TechStack struct {
	ID       int64  `json:"stack_id" db:"id"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
}

type JobCategory struct {
	ID   int64  `json:"category_id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Posting is a job listing joined with its company and location.
type Posting struct {
	ID              int64         `db:"id"`
	CompanyID       int64         `db:"company_id"`
	CompanyName     string        `db:"company_name"`
	Title           string        `db:"title"`
	JobDescription  *string       `db:"job_description"`
	ExperienceLevel *string       `db:"experience_level"`
	EducationLevel  *string       `db:"education_level"`
	EmploymentType  *string       `db:"employment_type"`
	SalaryInfo      *string       `db:"salary_info"`
	LocationID      *int64        `db:"location_id"`
	City            *string       `db:"city"`
	District        *string       `db:"district"`
	DeadlineDate    *string       `db:"deadline_date"`
	Status          PostingStatus `db:"status"`
	ViewCount       int64         `db:"view_count"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`

	TechStacks    []string `db:"-"`
	JobCategories []string `db:"-"`
}

// LocationLabel renders the location as "city district", or nil when the posting has none.
func (p *Posting) LocationLabel() *string {
	if p.City == nil {
		return nil
	}
	label := *p.City
	if p.District != nil && *p.District != "" {
		label += " " + *p.District
	}
	label = strings.TrimSpace(label)
	return &label
}

// RelatedPosting is the short form shown next to a posting detail.
type RelatedPosting struct {
	ID          int64  `json:"posting_id" db:"id"`
	Title       string `json:"title" db:"title"`
	CompanyName string `json:"company_name" db:"company_name"`
}

type Resume struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Title       string    `db:"title"`
	Content     []byte    `db:"content"`
	ContentType *string   `db:"content_type"`
	IsPrimary   bool      `db:"is_primary"`
	CreatedAt   time.Time `db:"created_at"`
}

type Application struct {
	ID        int64             `db:"id"`
	UserID    int64             `db:"user_id"`
	PostingID int64             `db:"posting_id"`
	ResumeID  *int64            `db:"resume_id"`
	Status    ApplicationStatus `db:"status"`
	AppliedAt time.Time         `db:"applied_at"`
}

// ApplicationSummary is an application joined with its posting title.
type ApplicationSummary struct {
	ID        int64             `db:"id"`
	PostingID int64             `db:"posting_id"`
	Title     string            `db:"title"`
	Status    ApplicationStatus `db:"status"`
	AppliedAt time.Time         `db:"applied_at"`
}

// BookmarkedPosting is a bookmark joined with the posting it points at.
type BookmarkedPosting struct {
	BookmarkID int64     `db:"bookmark_id"`
	CreatedAt  time.Time `db:"bookmarked_at"`
	Posting    Posting   `db:"-"`
}
