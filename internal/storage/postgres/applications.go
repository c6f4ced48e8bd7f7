package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/jackc/pgx/v5"
)

// ApplicationRepo implements the storage.ApplicationRepository interface using PostgreSQL.
type ApplicationRepo struct {
	db Querier
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db Querier) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

// WithTx creates a new ApplicationRepo bound to the transaction.
func (r *ApplicationRepo) WithTx(tx pgx.Tx) storage.ApplicationRepository {
	return &ApplicationRepo{db: tx}
}

var _ storage.ApplicationRepository = (*ApplicationRepo)(nil)

// Create inserts a pending application. A second application for the same
// (user, posting) pair fails with storage.ErrConflict.
func (r *ApplicationRepo) Create(ctx context.Context, userID, postingID int64, resumeID *int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO applications (user_id, posting_id, resume_id, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id`, userID, postingID, resumeID).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "applications_user_posting_key") {
			log.Printf("ApplicationRepo: user %d already applied to posting %d", userID, postingID)
			return 0, fmt.Errorf("creating application: %w", storage.ErrConflict)
		}
		return 0, classify(err, "creating application")
	}
	log.Printf("ApplicationRepo: application %d created (user %d, posting %d)", id, userID, postingID)
	return id, nil
}

func (r *ApplicationRepo) Exists(ctx context.Context, userID, postingID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE user_id = $1 AND posting_id = $2)`,
		userID, postingID).Scan(&exists)
	if err != nil {
		return false, classify(err, "checking application")
	}
	return exists, nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, posting_id, resume_id, status, applied_at FROM applications WHERE id = $1`, id)
	if err != nil {
		return nil, classify(err, "getting application")
	}
	app, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Application])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, classify(err, "scanning application")
	}
	return &app, nil
}

func (r *ApplicationRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return classify(err, "deleting application")
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List returns one page of the user's applications with posting titles, plus the total.
func (r *ApplicationRepo) List(ctx context.Context, f storage.ApplicationListFilter) ([]models.ApplicationSummary, int, error) {
	conditions := []string{"a.user_id = $1"}
	args := []interface{}{f.UserID}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}

	var total int
	countQuery := buildListCount(`SELECT COUNT(*) FROM applications a`, conditions)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, classify(err, "counting applications")
	}

	query := buildListQuery(`
		SELECT a.id, a.posting_id, p.title, a.status, a.applied_at
		FROM applications a
		JOIN postings p ON p.id = a.posting_id`,
		conditions, &args,
		fmt.Sprintf("a.applied_at %[1]s, a.id %[1]s", direction(f.Ascending)),
		f.Offset, f.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err, "listing applications")
	}
	apps, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ApplicationSummary])
	if err != nil {
		return nil, 0, classify(err, "scanning applications")
	}
	if apps == nil {
		apps = []models.ApplicationSummary{}
	}
	return apps, total, nil
}
