package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bjl5029/WSD-3/internal/catalog"
	"github.com/bjl5029/WSD-3/internal/storage"
	"github.com/bjl5029/WSD-3/internal/storage/postgres"
)

// Result counts the outcome of a batch.
type Result struct {
	Inserted int
	Skipped  int
	Failed   int
}

// Add accumulates another batch result.
func (r *Result) Add(other Result) {
	r.Inserted += other.Inserted
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

func (r Result) String() string {
	return fmt.Sprintf("inserted=%d skipped=%d failed=%d", r.Inserted, r.Skipped, r.Failed)
}

// DefaultRetryPolicy retries transient store errors three times, one second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: time.Second, Retryable: postgres.IsTransient}
}

type outcome int

const (
	outcomeInserted outcome = iota
	outcomeSkipped
)

// Pipeline writes listings to the database, one transaction per listing.
type Pipeline struct {
	db       storage.TxBeginner
	postings storage.PostingRepository
	resolver *catalog.Resolver
	retry    RetryPolicy
}

// NewPipeline creates a Pipeline. A zero retry policy means DefaultRetryPolicy.
func NewPipeline(db storage.TxBeginner, postings storage.PostingRepository, resolver *catalog.Resolver, retry RetryPolicy) *Pipeline {
	if retry.Attempts == 0 {
		retry = DefaultRetryPolicy()
	}
	if retry.Retryable == nil {
		retry.Retryable = postgres.IsTransient
	}
	return &Pipeline{db: db, postings: postings, resolver: resolver, retry: retry}
}

// Process stores every listing. A failing listing is logged and counted; the batch goes
// on. Cancellation is checked between listings.
func (p *Pipeline) Process(ctx context.Context, listings []Listing) Result {
	var res Result
	for i, listing := range listings {
		if err := ctx.Err(); err != nil {
			log.Printf("Pipeline: cancelled after %d of %d listings: %v", i, len(listings), err)
			res.Failed += len(listings) - i
			break
		}

		var out outcome
		err := Retry(ctx, p.retry, func(ctx context.Context) error {
			var err error
			out, err = p.store(ctx, listing)
			return err
		})
		switch {
		case err != nil:
			res.Failed++
			log.Printf("Pipeline: failed to store %q at %q: %v", listing.Title, listing.Company, err)
		case out == outcomeSkipped:
			res.Skipped++
		default:
			res.Inserted++
		}
	}
	log.Printf("Pipeline: batch of %d done, %s", len(listings), res)
	return res
}

func (p *Pipeline) store(ctx context.Context, listing Listing) (outcome, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	resolver := p.resolver.WithTx(tx)
	postings := p.postings.WithTx(tx)

	companyID, err := resolver.Company(ctx, listing.Company)
	if err != nil {
		return 0, fmt.Errorf("company: %w", err)
	}

	exists, err := postings.ExistsByCompanyTitle(ctx, companyID, listing.Title)
	if err != nil {
		return 0, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return outcomeSkipped, nil
	}

	var locationID *int64
	if city, district := SplitLocation(deref(listing.Location)); city != "" {
		id, err := resolver.Location(ctx, city, district)
		if err != nil {
			return 0, fmt.Errorf("location: %w", err)
		}
		locationID = &id
	}

	postingID, err := postings.Create(ctx, storage.CreatePostingParams{
		CompanyID:       companyID,
		Title:           listing.Title,
		JobDescription:  listing.Link,
		ExperienceLevel: listing.Experience,
		EducationLevel:  listing.Education,
		EmploymentType:  listing.EmploymentType,
		SalaryInfo:      listing.Salary,
		LocationID:      locationID,
		DeadlineDate:    listing.Deadline,
	})
	if err != nil {
		return 0, fmt.Errorf("posting: %w", err)
	}

	stackIDs, err := resolver.TechStacks(ctx, catalog.ParseTechStackText(deref(listing.Sector)), catalog.PolicyDropUnknown)
	if err != nil {
		return 0, err
	}
	if len(stackIDs) > 0 {
		if err := postings.AttachTechStacks(ctx, postingID, stackIDs); err != nil {
			return 0, fmt.Errorf("tech stacks: %w", err)
		}
	}

	categoryID, ok, err := resolver.KnownCategory(ctx, deref(listing.Experience))
	if err != nil {
		return 0, fmt.Errorf("job category: %w", err)
	}
	if ok {
		if err := postings.AttachCategories(ctx, postingID, []int64{categoryID}); err != nil {
			return 0, fmt.Errorf("job category: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return outcomeInserted, nil
}

