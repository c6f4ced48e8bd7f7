// Package mocks holds testify mocks of the storage interfaces.
package mocks

import (
	"context"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// Tx is a pgx.Tx whose Commit and Rollback only record that they were called. Any other
// method panics through the nil embedded interface.
type Tx struct {
	pgx.Tx
	Committed  bool
	RolledBack bool
	CommitErr  error
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.CommitErr != nil {
		return t.CommitErr
	}
	t.Committed = true
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// TxBeginner hands out a single Tx.
type TxBeginner struct {
	mock.Mock
}

func (m *TxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(pgx.Tx), args.Error(1)
	}
	return nil, args.Error(1)
}

// NewTxBeginner returns a beginner whose Begin always yields tx.
func NewTxBeginner(tx *Tx) *TxBeginner {
	b := &TxBeginner{}
	b.On("Begin", mock.Anything).Return(tx, nil)
	return b
}

var _ storage.TxBeginner = (*TxBeginner)(nil)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) WithTx(tx pgx.Tx) storage.UserRepository { return m }

func (m *UserRepository) Create(ctx context.Context, params storage.CreateUserParams) (*models.User, error) {
	args := m.Called(ctx, params)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) UpdateProfile(ctx context.Context, id int64, params storage.ProfileParams) error {
	return m.Called(ctx, id, params).Error(0)
}

func (m *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserRepository) SetStatus(ctx context.Context, id int64, status models.UserStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

var _ storage.UserRepository = (*UserRepository)(nil)

type CatalogRepository struct {
	mock.Mock
}

func (m *CatalogRepository) WithTx(tx pgx.Tx) storage.CatalogRepository { return m }

func (m *CatalogRepository) UpsertCompany(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepository) CompanyExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *CatalogRepository) UpsertLocation(ctx context.Context, city string, district *string) (int64, error) {
	args := m.Called(ctx, city, district)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepository) UpsertTechStack(ctx context.Context, name, category string) (int64, error) {
	args := m.Called(ctx, name, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepository) FindTechStack(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepository) ListTechStacks(ctx context.Context) ([]models.TechStack, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]models.TechStack), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) UpsertCategory(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogRepository) FindCategory(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

type PostingRepository struct {
	mock.Mock
}

func (m *PostingRepository) WithTx(tx pgx.Tx) storage.PostingRepository { return m }

func (m *PostingRepository) Search(ctx context.Context, filter storage.PostingFilter) ([]models.Posting, int, error) {
	args := m.Called(ctx, filter)
	if p := args.Get(0); p != nil {
		return p.([]models.Posting), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *PostingRepository) IncrementViewCount(ctx context.Context, id int64) (*models.Posting, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Posting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PostingRepository) Related(ctx context.Context, posting *models.Posting, limit int) ([]models.RelatedPosting, error) {
	args := m.Called(ctx, posting, limit)
	if r := args.Get(0); r != nil {
		return r.([]models.RelatedPosting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PostingRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *PostingRepository) ExistsByCompanyTitle(ctx context.Context, companyID int64, title string) (bool, error) {
	args := m.Called(ctx, companyID, title)
	return args.Bool(0), args.Error(1)
}

func (m *PostingRepository) Create(ctx context.Context, params storage.CreatePostingParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PostingRepository) Update(ctx context.Context, id int64, params storage.UpdatePostingParams) error {
	return m.Called(ctx, id, params).Error(0)
}

func (m *PostingRepository) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PostingRepository) AttachTechStacks(ctx context.Context, postingID int64, stackIDs []int64) error {
	return m.Called(ctx, postingID, stackIDs).Error(0)
}

func (m *PostingRepository) AttachCategories(ctx context.Context, postingID int64, categoryIDs []int64) error {
	return m.Called(ctx, postingID, categoryIDs).Error(0)
}

func (m *PostingRepository) ReplaceTechStacks(ctx context.Context, postingID int64, stackIDs []int64) error {
	return m.Called(ctx, postingID, stackIDs).Error(0)
}

func (m *PostingRepository) ReplaceCategories(ctx context.Context, postingID int64, categoryIDs []int64) error {
	return m.Called(ctx, postingID, categoryIDs).Error(0)
}

var _ storage.PostingRepository = (*PostingRepository)(nil)

type ApplicationRepository struct {
	mock.Mock
}

func (m *ApplicationRepository) WithTx(tx pgx.Tx) storage.ApplicationRepository { return m }

func (m *ApplicationRepository) Create(ctx context.Context, userID, postingID int64, resumeID *int64) (int64, error) {
	args := m.Called(ctx, userID, postingID, resumeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ApplicationRepository) Exists(ctx context.Context, userID, postingID int64) (bool, error) {
	args := m.Called(ctx, userID, postingID)
	return args.Bool(0), args.Error(1)
}

func (m *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Application), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ApplicationRepository) List(ctx context.Context, filter storage.ApplicationListFilter) ([]models.ApplicationSummary, int, error) {
	args := m.Called(ctx, filter)
	if a := args.Get(0); a != nil {
		return a.([]models.ApplicationSummary), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

var _ storage.ApplicationRepository = (*ApplicationRepository)(nil)

type ResumeRepository struct {
	mock.Mock
}

func (m *ResumeRepository) WithTx(tx pgx.Tx) storage.ResumeRepository { return m }

func (m *ResumeRepository) Create(ctx context.Context, resume *models.Resume) (int64, error) {
	args := m.Called(ctx, resume)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ResumeRepository) GetOwned(ctx context.Context, id, userID int64) (*models.Resume, error) {
	args := m.Called(ctx, id, userID)
	if r := args.Get(0); r != nil {
		return r.(*models.Resume), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ResumeRepository) ListByUser(ctx context.Context, userID int64) ([]models.Resume, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]models.Resume), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ storage.ResumeRepository = (*ResumeRepository)(nil)

type BookmarkRepository struct {
	mock.Mock
}

func (m *BookmarkRepository) WithTx(tx pgx.Tx) storage.BookmarkRepository { return m }

func (m *BookmarkRepository) Add(ctx context.Context, userID, postingID int64) (bool, error) {
	args := m.Called(ctx, userID, postingID)
	return args.Bool(0), args.Error(1)
}

func (m *BookmarkRepository) Remove(ctx context.Context, userID, postingID int64) (bool, error) {
	args := m.Called(ctx, userID, postingID)
	return args.Bool(0), args.Error(1)
}

func (m *BookmarkRepository) List(ctx context.Context, userID int64, ascending bool, limit, offset int) ([]models.BookmarkedPosting, int, error) {
	args := m.Called(ctx, userID, ascending, limit, offset)
	if b := args.Get(0); b != nil {
		return b.([]models.BookmarkedPosting), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

var _ storage.BookmarkRepository = (*BookmarkRepository)(nil)
