package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bjl5029/WSD-3/internal/catalog"
	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"
	"github.com/bjl5029/WSD-3/internal/transport/dto"
)

// RelatedLimit caps the related postings shown on a detail page.
const RelatedLimit = 5

type postingService struct {
	db       storage.TxBeginner
	postings storage.PostingRepository
	resolver *catalog.Resolver
}

// NewPostingService creates a new instance of PostingService.
func NewPostingService(db storage.TxBeginner, postings storage.PostingRepository, resolver *catalog.Resolver) PostingService {
	return &postingService{db: db, postings: postings, resolver: resolver}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Search lists active postings matching req, one page at a time.
func (s *postingService) Search(ctx context.Context, req *dto.SearchJobsRequest) (*Page[models.Posting], error) {
	page, offset := normalizePage(req.Page)
	filter := storage.PostingFilter{
		Keyword:        strings.TrimSpace(req.Keyword),
		Company:        strings.TrimSpace(req.Company),
		EmploymentType: strings.TrimSpace(req.EmploymentType),
		Position:       strings.TrimSpace(req.Position),
		SalaryInfo:     strings.TrimSpace(req.SalaryInfo),
		Location:       strings.TrimSpace(req.Location),
		JobCategories:  cleanList(req.JobCategories),
		TechStacks:     cleanList(req.TechStacks),
		Sort:           storage.ParsePostingSort(req.Sort),
		Limit:          PageSize,
		Offset:         offset,
	}

	postings, total, err := s.postings.Search(ctx, filter)
	if err != nil {
		return nil, MapRepoError(err, "searching postings")
	}
	return newPage(postings, total, page), nil
}

// GetDetail returns a non-deleted posting and counts the view.
func (s *postingService) GetDetail(ctx context.Context, id int64) (*PostingDetail, error) {
	posting, err := s.postings.IncrementViewCount(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError(ErrNotFound, "Job not found")
		}
		return nil, MapRepoError(err, fmt.Sprintf("fetching posting %d", id))
	}

	related, err := s.postings.Related(ctx, posting, RelatedLimit)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("fetching postings related to %d", id))
	}
	if related == nil {
		related = []models.RelatedPosting{}
	}
	return &PostingDetail{Posting: posting, Related: related}, nil
}

func (s *postingService) resolveLocation(ctx context.Context, resolver *catalog.Resolver, loc *dto.LocationInput) (*int64, error) {
	if loc == nil {
		return nil, nil
	}
	id, err := resolver.Location(ctx, loc.City, loc.District)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyName) {
			return nil, newError(ErrValidation, "location.city must not be blank")
		}
		return nil, MapRepoError(err, "resolving location")
	}
	return &id, nil
}

// Create adds a posting with its location, tech stacks and categories in one transaction.
// Unknown tech stacks are created.
func (s *postingService) Create(ctx context.Context, req *dto.CreateJobRequest) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("CreatePosting: Error beginning transaction: %v", err)
		return 0, MapRepoError(err, "starting transaction")
	}
	defer tx.Rollback(ctx)

	resolver := s.resolver.WithTx(tx)
	postings := s.postings.WithTx(tx)

	exists, err := resolver.CompanyExists(ctx, req.CompanyID)
	if err != nil {
		return 0, MapRepoError(err, "checking company")
	}
	if !exists {
		return 0, newError(ErrNotFound, "Company not found")
	}

	locationID, err := s.resolveLocation(ctx, resolver, req.Location)
	if err != nil {
		return 0, err
	}

	postingID, err := postings.Create(ctx, storage.CreatePostingParams{
		CompanyID:       req.CompanyID,
		Title:           strings.TrimSpace(req.Title),
		JobDescription:  &req.JobDescription,
		ExperienceLevel: req.ExperienceLevel,
		EducationLevel:  req.EducationLevel,
		EmploymentType:  req.EmploymentType,
		SalaryInfo:      req.SalaryInfo,
		LocationID:      locationID,
		DeadlineDate:    req.DeadlineDate,
	})
	if err != nil {
		return 0, MapRepoError(err, "creating posting")
	}

	stackIDs, err := resolver.TechStacks(ctx, req.TechStacks, catalog.PolicyCreateUnknown)
	if err != nil {
		return 0, MapRepoError(err, "resolving tech stacks")
	}
	if err := postings.AttachTechStacks(ctx, postingID, stackIDs); err != nil {
		return 0, MapRepoError(err, "attaching tech stacks")
	}
	categoryIDs, err := resolver.Categories(ctx, req.JobCategories)
	if err != nil {
		return 0, MapRepoError(err, "resolving job categories")
	}
	if err := postings.AttachCategories(ctx, postingID, categoryIDs); err != nil {
		return 0, MapRepoError(err, "attaching job categories")
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("CreatePosting: Error committing transaction: %v", err)
		return 0, MapRepoError(err, "committing posting")
	}
	log.Printf("Posting %d created for company %d", postingID, req.CompanyID)
	return postingID, nil
}

// Update applies a partial update. Tag lists, when given, replace the current sets.
func (s *postingService) Update(ctx context.Context, id int64, req *dto.UpdateJobRequest) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("UpdatePosting: Error beginning transaction: %v", err)
		return MapRepoError(err, "starting transaction")
	}
	defer tx.Rollback(ctx)

	resolver := s.resolver.WithTx(tx)
	postings := s.postings.WithTx(tx)

	params := storage.UpdatePostingParams{
		Title:           req.Title,
		JobDescription:  req.JobDescription,
		ExperienceLevel: req.ExperienceLevel,
		EducationLevel:  req.EducationLevel,
		EmploymentType:  req.EmploymentType,
		SalaryInfo:      req.SalaryInfo,
		DeadlineDate:    req.DeadlineDate,
	}
	if req.Status != nil {
		var status models.PostingStatus
		if err := status.Scan(*req.Status); err != nil {
			return newError(ErrValidation, "status must be one of active, closed, deleted")
		}
		params.Status = &status
	}
	if params.LocationID, err = s.resolveLocation(ctx, resolver, req.Location); err != nil {
		return err
	}

	if err := postings.Update(ctx, id, params); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(ErrNotFound, "Job posting not found")
		}
		return MapRepoError(err, fmt.Sprintf("updating posting %d", id))
	}

	if req.TechStacks != nil {
		stackIDs, err := resolver.TechStacks(ctx, *req.TechStacks, catalog.PolicyCreateUnknown)
		if err != nil {
			return MapRepoError(err, "resolving tech stacks")
		}
		if err := postings.ReplaceTechStacks(ctx, id, stackIDs); err != nil {
			return MapRepoError(err, "replacing tech stacks")
		}
	}
	if req.JobCategories != nil {
		categoryIDs, err := resolver.Categories(ctx, *req.JobCategories)
		if err != nil {
			return MapRepoError(err, "resolving job categories")
		}
		if err := postings.ReplaceCategories(ctx, id, categoryIDs); err != nil {
			return MapRepoError(err, "replacing job categories")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("UpdatePosting: Error committing transaction: %v", err)
		return MapRepoError(err, "committing posting update")
	}
	return nil
}

// Delete soft-deletes a posting.
func (s *postingService) Delete(ctx context.Context, id int64) error {
	if err := s.postings.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return newError(ErrNotFound, "Job posting not found")
		}
		return MapRepoError(err, fmt.Sprintf("deleting posting %d", id))
	}
	log.Printf("Posting %d deleted", id)
	return nil
}
