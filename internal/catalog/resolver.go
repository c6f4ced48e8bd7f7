package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/jackc/pgx/v5"
)

// DefaultStackCategory is given to tech stacks created on the fly.
const DefaultStackCategory = "Other"

// ErrEmptyName is returned when a natural key normalises to nothing.
var ErrEmptyName = errors.New("catalog: empty name")

// Policy decides what happens to tech-stack names the catalog does not know yet.
type Policy int

const (
	// PolicyDropUnknown ignores unknown names. Scraped data uses it so noisy sector text
	// cannot grow the catalog.
	PolicyDropUnknown Policy = iota
	// PolicyCreateUnknown creates unknown names with DefaultStackCategory. Admin authoring
	// uses it.
	PolicyCreateUnknown
)

func (p Policy) String() string {
	switch p {
	case PolicyDropUnknown:
		return "drop-unknown"
	case PolicyCreateUnknown:
		return "create-unknown"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Resolver turns names into catalog ids, creating rows where allowed.
type Resolver struct {
	repo  storage.CatalogRepository
	cache *StackCache
}

// NewResolver creates a Resolver. cache may be shared between resolvers.
func NewResolver(repo storage.CatalogRepository, cache *StackCache) *Resolver {
	if cache == nil {
		cache = NewStackCache()
	}
	return &Resolver{repo: repo, cache: cache}
}

// WithTx returns a resolver whose statements run inside tx and which shares the cache.
func (r *Resolver) WithTx(tx pgx.Tx) *Resolver {
	return &Resolver{repo: r.repo.WithTx(tx), cache: r.cache}
}

// Cache exposes the shared stack cache.
func (r *Resolver) Cache() *StackCache {
	return r.cache
}

// CompanyExists reports whether a company row with id exists.
func (r *Resolver) CompanyExists(ctx context.Context, id int64) (bool, error) {
	return r.repo.CompanyExists(ctx, id)
}

func (r *Resolver) Company(ctx context.Context, name string) (int64, error) {
	name = NormalizeName(name)
	if name == "" {
		return 0, fmt.Errorf("%w: company", ErrEmptyName)
	}
	return r.repo.UpsertCompany(ctx, name)
}

// Location resolves (city, district). A nil or blank district is stored as NULL.
func (r *Resolver) Location(ctx context.Context, city string, district *string) (int64, error) {
	city = NormalizeName(city)
	if city == "" {
		return 0, fmt.Errorf("%w: city", ErrEmptyName)
	}
	var d *string
	if district != nil {
		if v := NormalizeName(*district); v != "" {
			d = &v
		}
	}
	return r.repo.UpsertLocation(ctx, city, d)
}

func (r *Resolver) TechStack(ctx context.Context, name, category string) (int64, error) {
	name = NormalizeName(name)
	if name == "" {
		return 0, fmt.Errorf("%w: tech stack", ErrEmptyName)
	}
	if category == "" {
		category = DefaultStackCategory
	}
	return r.repo.UpsertTechStack(ctx, name, category)
}

// TechStacks resolves names under policy and returns the ids of the resolved ones,
// without duplicates, in input order.
func (r *Resolver) TechStacks(ctx context.Context, names []string, policy Policy) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	seen := make(map[int64]struct{}, len(names))
	for _, raw := range names {
		name := NormalizeName(raw)
		if name == "" {
			continue
		}

		var id int64
		var err error
		switch policy {
		case PolicyCreateUnknown:
			id, err = r.TechStack(ctx, name, DefaultStackCategory)
		default:
			var ok bool
			id, ok, err = r.knownStack(ctx, name)
			if err == nil && !ok {
				continue
			}
		}
		if err != nil {
			return nil, fmt.Errorf("resolving tech stack %q: %w", name, err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Resolver) knownStack(ctx context.Context, name string) (int64, bool, error) {
	if id, ok := r.cache.Get(name); ok {
		return id, true, nil
	}
	id, err := r.repo.FindTechStack(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	r.cache.Put(name, id)
	return id, true, nil
}

// Category resolves a job category, creating it when missing.
func (r *Resolver) Category(ctx context.Context, name string) (int64, error) {
	name = NormalizeName(name)
	if name == "" {
		return 0, fmt.Errorf("%w: job category", ErrEmptyName)
	}
	return r.repo.UpsertCategory(ctx, name)
}

// Categories resolves every name with Category, skipping blanks and duplicates.
func (r *Resolver) Categories(ctx context.Context, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	seen := make(map[int64]struct{}, len(names))
	for _, name := range names {
		if NormalizeName(name) == "" {
			continue
		}
		id, err := r.Category(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolving job category %q: %w", name, err)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// KnownCategory looks up an existing category by exact name.
func (r *Resolver) KnownCategory(ctx context.Context, name string) (int64, bool, error) {
	name = NormalizeName(name)
	if name == "" {
		return 0, false, nil
	}
	id, err := r.repo.FindCategory(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

// Seed upserts the embedded seed catalog. It is idempotent.
func (r *Resolver) Seed(ctx context.Context) error {
	seed, err := LoadSeed()
	if err != nil {
		return err
	}
	for _, s := range seed.TechStacks {
		if _, err := r.TechStack(ctx, s.Name, s.Category); err != nil {
			return fmt.Errorf("seeding tech stack %s: %w", s.Name, err)
		}
	}
	for _, name := range seed.JobCategories {
		if _, err := r.Category(ctx, name); err != nil {
			return fmt.Errorf("seeding job category %s: %w", name, err)
		}
	}
	log.Printf("Catalog: seeded %d tech stacks and %d job categories", len(seed.TechStacks), len(seed.JobCategories))
	return nil
}

// WarmCache loads every known tech stack into the cache.
func (r *Resolver) WarmCache(ctx context.Context) error {
	stacks, err := r.repo.ListTechStacks(ctx)
	if err != nil {
		return fmt.Errorf("warming stack cache: %w", err)
	}
	r.cache.Load(stacks)
	log.Printf("Catalog: stack cache warmed with %d entries", r.cache.Len())
	return nil
}
