package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/jackc/pgx/v5"
)

// BookmarkRepo implements the storage.BookmarkRepository interface using PostgreSQL.
type BookmarkRepo struct {
	db Querier
}

// NewBookmarkRepo creates a new BookmarkRepo.
func NewBookmarkRepo(db Querier) *BookmarkRepo {
	return &BookmarkRepo{db: db}
}

// WithTx creates a new BookmarkRepo bound to the transaction.
func (r *BookmarkRepo) WithTx(tx pgx.Tx) storage.BookmarkRepository {
	return &BookmarkRepo{db: tx}
}

var _ storage.BookmarkRepository = (*BookmarkRepo)(nil)

// Add inserts the bookmark and reports whether a row was created. A concurrent insert of
// the same pair is absorbed by ON CONFLICT.
func (r *BookmarkRepo) Add(ctx context.Context, userID, postingID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO bookmarks (user_id, posting_id) VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT bookmarks_user_posting_key DO NOTHING`, userID, postingID)
	if err != nil {
		return false, classify(err, "adding bookmark")
	}
	return tag.RowsAffected() == 1, nil
}

// Remove deletes the bookmark and reports whether one existed.
func (r *BookmarkRepo) Remove(ctx context.Context, userID, postingID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND posting_id = $2`, userID, postingID)
	if err != nil {
		return false, classify(err, "removing bookmark")
	}
	return tag.RowsAffected() > 0, nil
}

type bookmarkRow struct {
	BookmarkID   int64     `db:"bookmark_id"`
	BookmarkedAt time.Time `db:"bookmarked_at"`
	models.Posting
}

// List returns one page of the user's bookmarked postings with their tags, plus the total.
func (r *BookmarkRepo) List(ctx context.Context, userID int64, ascending bool, limit, offset int) ([]models.BookmarkedPosting, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookmarks WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, classify(err, "counting bookmarks")
	}

	args := []interface{}{userID}
	query := buildListQuery(`
		SELECT b.id AS bookmark_id, b.created_at AS bookmarked_at, `+postingSelect+`
		FROM bookmarks b
		JOIN postings p ON p.id = b.posting_id
		JOIN companies c ON c.id = p.company_id
		LEFT JOIN locations l ON l.id = p.location_id`,
		[]string{"b.user_id = $1"}, &args,
		fmt.Sprintf("b.created_at %[1]s, b.id %[1]s", direction(ascending)),
		offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err, "listing bookmarks")
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[bookmarkRow])
	if err != nil {
		return nil, 0, classify(err, "scanning bookmarks")
	}

	postings := make([]models.Posting, len(found))
	for i := range found {
		postings[i] = found[i].Posting
	}
	if err := loadTags(ctx, r.db, postings); err != nil {
		return nil, 0, err
	}

	result := make([]models.BookmarkedPosting, len(found))
	for i := range found {
		result[i] = models.BookmarkedPosting{
			BookmarkID: found[i].BookmarkID,
			CreatedAt:  found[i].BookmarkedAt,
			Posting:    postings[i],
		}
	}
	return result, total, nil
}
