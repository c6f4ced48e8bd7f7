package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/jackc/pgx/v5"
)

// CatalogRepo implements the storage.CatalogRepository interface using PostgreSQL.
//
// Every upsert is an INSERT ... ON CONFLICT DO NOTHING followed, when nothing was
// returned, by a lookup in a fresh statement. Under READ COMMITTED the lookup sees the
// row committed by whichever caller won the race.
type CatalogRepo struct {
	db Querier
}

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(db Querier) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// WithTx creates a new CatalogRepo bound to the transaction.
func (r *CatalogRepo) WithTx(tx pgx.Tx) storage.CatalogRepository {
	return &CatalogRepo{db: tx}
}

var _ storage.CatalogRepository = (*CatalogRepo)(nil)

func (r *CatalogRepo) upsert(ctx context.Context, op, insert, lookup string, args ...any) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, insert, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, classify(err, op)
	}
	if err := r.db.QueryRow(ctx, lookup, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The conflicting row vanished between the two statements.
			return 0, fmt.Errorf("%s: %w", op, storage.ErrTransient)
		}
		return 0, classify(err, op)
	}
	return id, nil
}

func (r *CatalogRepo) find(ctx context.Context, op, query string, args ...any) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, storage.ErrNotFound
		}
		return 0, classify(err, op)
	}
	return id, nil
}

func (r *CatalogRepo) UpsertCompany(ctx context.Context, name string) (int64, error) {
	return r.upsert(ctx, "upserting company",
		`INSERT INTO companies (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`,
		`SELECT id FROM companies WHERE name = $1`,
		name)
}

func (r *CatalogRepo) CompanyExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, classify(err, "checking company")
	}
	return exists, nil
}

// UpsertLocation treats a nil district as its own key, distinct from "".
func (r *CatalogRepo) UpsertLocation(ctx context.Context, city string, district *string) (int64, error) {
	return r.upsert(ctx, "upserting location",
		`INSERT INTO locations (city, district) VALUES ($1, $2)
		 ON CONFLICT ON CONSTRAINT locations_city_district_key DO NOTHING RETURNING id`,
		`SELECT id FROM locations WHERE city = $1 AND district IS NOT DISTINCT FROM $2`,
		city, district)
}

// UpsertTechStack matches names case-insensitively. An existing row keeps its category.
func (r *CatalogRepo) UpsertTechStack(ctx context.Context, name, category string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO tech_stacks (name, category) VALUES ($1, $2)
		 ON CONFLICT ((lower(name))) DO NOTHING RETURNING id`,
		name, category).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, classify(err, "upserting tech stack")
	}
	id, err = r.FindTechStack(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("upserting tech stack: %w", storage.ErrTransient)
	}
	return id, err
}

func (r *CatalogRepo) FindTechStack(ctx context.Context, name string) (int64, error) {
	return r.find(ctx, "finding tech stack", `SELECT id FROM tech_stacks WHERE lower(name) = lower($1)`, name)
}

func (r *CatalogRepo) ListTechStacks(ctx context.Context) ([]models.TechStack, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, category FROM tech_stacks ORDER BY id`)
	if err != nil {
		return nil, classify(err, "listing tech stacks")
	}
	stacks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TechStack])
	if err != nil {
		return nil, classify(err, "scanning tech stacks")
	}
	if stacks == nil {
		return []models.TechStack{}, nil
	}
	return stacks, nil
}

func (r *CatalogRepo) UpsertCategory(ctx context.Context, name string) (int64, error) {
	return r.upsert(ctx, "upserting job category",
		`INSERT INTO job_categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`,
		`SELECT id FROM job_categories WHERE name = $1`,
		name)
}

func (r *CatalogRepo) FindCategory(ctx context.Context, name string) (int64, error) {
	return r.find(ctx, "finding job category", `SELECT id FROM job_categories WHERE name = $1`, name)
}
