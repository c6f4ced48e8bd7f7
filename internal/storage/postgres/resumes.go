package postgres

import (
	"context"
	"errors"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/jackc/pgx/v5"
)

// ResumeRepo implements the storage.ResumeRepository interface using PostgreSQL.
type ResumeRepo struct {
	db Querier
}

// NewResumeRepo creates a new ResumeRepo.
func NewResumeRepo(db Querier) *ResumeRepo {
	return &ResumeRepo{db: db}
}

// WithTx creates a new ResumeRepo bound to the transaction.
func (r *ResumeRepo) WithTx(tx pgx.Tx) storage.ResumeRepository {
	return &ResumeRepo{db: tx}
}

var _ storage.ResumeRepository = (*ResumeRepo)(nil)

func (r *ResumeRepo) Create(ctx context.Context, resume *models.Resume) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO resumes (user_id, title, content, content_type, is_primary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		resume.UserID, resume.Title, resume.Content, resume.ContentType, resume.IsPrimary,
	).Scan(&id)
	if err != nil {
		return 0, classify(err, "creating resume")
	}
	return id, nil
}

// GetOwned returns the resume only when it belongs to userID.
func (r *ResumeRepo) GetOwned(ctx context.Context, id, userID int64) (*models.Resume, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, content, content_type, is_primary, created_at
		FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, classify(err, "getting resume")
	}
	resume, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Resume])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, classify(err, "scanning resume")
	}
	return &resume, nil
}

// ListByUser returns the user's resumes without their content.
func (r *ResumeRepo) ListByUser(ctx context.Context, userID int64) ([]models.Resume, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, NULL::bytea AS content, content_type, is_primary, created_at
		FROM resumes WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, classify(err, "listing resumes")
	}
	resumes, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Resume])
	if err != nil {
		return nil, classify(err, "scanning resumes")
	}
	if resumes == nil {
		return []models.Resume{}, nil
	}
	return resumes, nil
}
