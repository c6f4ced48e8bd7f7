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

// postingSelect lists the models.Posting columns over the p/c/l aliases used by every
// posting query.
const postingSelect = `
	p.id, p.company_id, c.name AS company_name, p.title, p.job_description,
	p.experience_level, p.education_level, p.employment_type, p.salary_info,
	p.location_id, l.city, l.district, p.deadline_date, p.status, p.view_count,
	p.created_at, p.updated_at`

// PostingRepo implements the storage.PostingRepository interface using PostgreSQL.
type PostingRepo struct {
	db Querier
}

// NewPostingRepo creates a new PostingRepo.
func NewPostingRepo(db Querier) *PostingRepo {
	return &PostingRepo{db: db}
}

// WithTx creates a new PostingRepo bound to the transaction.
func (r *PostingRepo) WithTx(tx pgx.Tx) storage.PostingRepository {
	return &PostingRepo{db: tx}
}

var _ storage.PostingRepository = (*PostingRepo)(nil)

// IncrementViewCount bumps the view counter of a non-deleted posting and returns it
// with its tags. The increment is a single UPDATE so concurrent views never lose a count.
func (r *PostingRepo) IncrementViewCount(ctx context.Context, id int64) (*models.Posting, error) {
	query := `
		WITH p AS (
			UPDATE postings SET view_count = view_count + 1
			WHERE id = $1 AND status <> 'deleted'
			RETURNING *
		)
		SELECT ` + postingSelect + `
		FROM p
		JOIN companies c ON c.id = p.company_id
		LEFT JOIN locations l ON l.id = p.location_id`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, classify(err, "incrementing view count")
	}
	posting, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Posting])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, classify(err, "scanning posting")
	}

	postings := []models.Posting{posting}
	if err := r.attachTags(ctx, postings); err != nil {
		return nil, err
	}
	return &postings[0], nil
}

// Related returns up to limit active postings sharing the company or a tech stack.
func (r *PostingRepo) Related(ctx context.Context, posting *models.Posting, limit int) ([]models.RelatedPosting, error) {
	query := `
		SELECT p.id, p.title, c.name AS company_name
		FROM postings p
		JOIN companies c ON c.id = p.company_id
		WHERE p.status = 'active'
		  AND p.id <> $1
		  AND (
			p.company_id = $2
			OR EXISTS (
				SELECT 1
				FROM posting_tech_stacks a
				JOIN posting_tech_stacks b ON b.tech_stack_id = a.tech_stack_id
				WHERE a.posting_id = p.id AND b.posting_id = $1
			)
		  )
		ORDER BY random()
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, posting.ID, posting.CompanyID, limit)
	if err != nil {
		return nil, classify(err, "listing related postings")
	}
	related, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RelatedPosting])
	if err != nil {
		return nil, classify(err, "scanning related postings")
	}
	if related == nil {
		return []models.RelatedPosting{}, nil
	}
	return related, nil
}

// Exists reports whether a non-deleted posting with the id exists.
func (r *PostingRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM postings WHERE id = $1 AND status <> 'deleted')`, id).Scan(&exists)
	if err != nil {
		return false, classify(err, "checking posting")
	}
	return exists, nil
}

// ExistsByCompanyTitle reports whether any posting, deleted or not, has the company and
// title. It first takes a transaction-scoped advisory lock on the pair, so when called in a
// transaction, concurrent check-then-insert sequences for the same pair run one at a time.
func (r *PostingRepo) ExistsByCompanyTitle(ctx context.Context, companyID int64, title string) (bool, error) {
	if _, err := r.db.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		fmt.Sprintf("%d:%s", companyID, title)); err != nil {
		return false, classify(err, "locking company and title")
	}

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM postings WHERE company_id = $1 AND title = $2)`,
		companyID, title).Scan(&exists)
	if err != nil {
		return false, classify(err, "checking posting by company and title")
	}
	return exists, nil
}

// Create inserts an active posting and returns its id.
func (r *PostingRepo) Create(ctx context.Context, params storage.CreatePostingParams) (int64, error) {
	query := `
		INSERT INTO postings (company_id, title, job_description, experience_level, education_level,
			employment_type, salary_info, location_id, deadline_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		params.CompanyID,
		params.Title,
		params.JobDescription,
		params.ExperienceLevel,
		params.EducationLevel,
		params.EmploymentType,
		params.SalaryInfo,
		params.LocationID,
		params.DeadlineDate,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Printf("PostingRepo: invalid company %d or location: %v", params.CompanyID, err)
			return 0, fmt.Errorf("creating posting: invalid reference: %w", storage.ErrNotFound)
		}
		return 0, classify(err, "creating posting")
	}
	return id, nil
}

// Update applies the non-nil fields to a posting in any status, so a deleted posting can
// be restored by setting its status back to active or closed.
func (r *PostingRepo) Update(ctx context.Context, id int64, params storage.UpdatePostingParams) error {
	query := `
		UPDATE postings SET
			title            = COALESCE($2, title),
			job_description  = COALESCE($3, job_description),
			experience_level = COALESCE($4, experience_level),
			education_level  = COALESCE($5, education_level),
			employment_type  = COALESCE($6, employment_type),
			salary_info      = COALESCE($7, salary_info),
			location_id      = COALESCE($8, location_id),
			deadline_date    = COALESCE($9, deadline_date),
			status           = COALESCE($10, status),
			updated_at       = NOW()
		WHERE id = $1`

	var status *string
	if params.Status != nil {
		s := string(*params.Status)
		status = &s
	}
	tag, err := r.db.Exec(ctx, query,
		id,
		params.Title,
		params.JobDescription,
		params.ExperienceLevel,
		params.EducationLevel,
		params.EmploymentType,
		params.SalaryInfo,
		params.LocationID,
		params.DeadlineDate,
		status,
	)
	if err != nil {
		return classify(err, fmt.Sprintf("updating posting %d", id))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SoftDelete marks a posting deleted. Deleted postings are never purged.
func (r *PostingRepo) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE postings SET status = 'deleted', updated_at = NOW() WHERE id = $1 AND status <> 'deleted'`, id)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting posting %d", id))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *PostingRepo) AttachTechStacks(ctx context.Context, postingID int64, stackIDs []int64) error {
	if len(stackIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO posting_tech_stacks (posting_id, tech_stack_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, postingID, stackIDs)
	return classify(err, "attaching tech stacks")
}

func (r *PostingRepo) AttachCategories(ctx context.Context, postingID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO posting_categories (posting_id, category_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, postingID, categoryIDs)
	return classify(err, "attaching job categories")
}

// ReplaceTechStacks makes stackIDs the posting's exact tech-stack set.
func (r *PostingRepo) ReplaceTechStacks(ctx context.Context, postingID int64, stackIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM posting_tech_stacks WHERE posting_id = $1`, postingID); err != nil {
		return classify(err, "clearing tech stacks")
	}
	return r.AttachTechStacks(ctx, postingID, stackIDs)
}

// ReplaceCategories makes categoryIDs the posting's exact category set.
func (r *PostingRepo) ReplaceCategories(ctx context.Context, postingID int64, categoryIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM posting_categories WHERE posting_id = $1`, postingID); err != nil {
		return classify(err, "clearing job categories")
	}
	return r.AttachCategories(ctx, postingID, categoryIDs)
}

// attachTags loads tech-stack and category names for the postings with one query per
// relation and fills them in name order. Postings without tags get empty slices.
func (r *PostingRepo) attachTags(ctx context.Context, postings []models.Posting) error {
	return loadTags(ctx, r.db, postings)
}

func loadTags(ctx context.Context, db Querier, postings []models.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	ids := make([]int64, len(postings))
	index := make(map[int64][]int, len(postings))
	for i := range postings {
		ids[i] = postings[i].ID
		index[postings[i].ID] = append(index[postings[i].ID], i)
		postings[i].TechStacks = []string{}
		postings[i].JobCategories = []string{}
	}

	stacks, err := collectTags(ctx, db, `
		SELECT pts.posting_id, ts.name
		FROM posting_tech_stacks pts
		JOIN tech_stacks ts ON ts.id = pts.tech_stack_id
		WHERE pts.posting_id = ANY($1)
		ORDER BY pts.posting_id, ts.name`, ids)
	if err != nil {
		return classify(err, "loading tech stacks")
	}
	for _, tag := range stacks {
		for _, i := range index[tag.PostingID] {
			postings[i].TechStacks = append(postings[i].TechStacks, tag.Name)
		}
	}

	categories, err := collectTags(ctx, db, `
		SELECT pc.posting_id, jc.name
		FROM posting_categories pc
		JOIN job_categories jc ON jc.id = pc.category_id
		WHERE pc.posting_id = ANY($1)
		ORDER BY pc.posting_id, jc.name`, ids)
	if err != nil {
		return classify(err, "loading job categories")
	}
	for _, tag := range categories {
		for _, i := range index[tag.PostingID] {
			postings[i].JobCategories = append(postings[i].JobCategories, tag.Name)
		}
	}
	return nil
}

type postingTag struct {
	PostingID int64  `db:"posting_id"`
	Name      string `db:"name"`
}

func collectTags(ctx context.Context, db Querier, query string, ids []int64) ([]postingTag, error) {
	rows, err := db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[postingTag])
}
