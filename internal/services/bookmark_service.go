package services

import (
	"context"
	"fmt"
	"log"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"
	"github.com/bjl5029/WSD-3/internal/transport/dto"
)

type bookmarkService struct {
	db        storage.TxBeginner
	bookmarks storage.BookmarkRepository
	postings  storage.PostingRepository
}

// NewBookmarkService creates a new instance of BookmarkService.
func NewBookmarkService(db storage.TxBeginner, bookmarks storage.BookmarkRepository, postings storage.PostingRepository) BookmarkService {
	return &bookmarkService{db: db, bookmarks: bookmarks, postings: postings}
}

// Toggle removes the bookmark when present and adds it otherwise. It reports whether
// the posting ends up bookmarked.
func (s *bookmarkService) Toggle(ctx context.Context, userID, postingID int64) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("ToggleBookmark: Error beginning transaction: %v", err)
		return false, MapRepoError(err, "starting transaction")
	}
	defer tx.Rollback(ctx)

	bookmarks := s.bookmarks.WithTx(tx)

	removed, err := bookmarks.Remove(ctx, userID, postingID)
	if err != nil {
		return false, MapRepoError(err, "removing bookmark")
	}
	if !removed {
		exists, err := s.postings.WithTx(tx).Exists(ctx, postingID)
		if err != nil {
			return false, MapRepoError(err, fmt.Sprintf("checking posting %d", postingID))
		}
		if !exists {
			return false, newError(ErrNotFound, "Job posting not found")
		}
		// A concurrent toggle may have inserted first; either way the bookmark is present.
		if _, err := bookmarks.Add(ctx, userID, postingID); err != nil {
			return false, MapRepoError(err, "adding bookmark")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("ToggleBookmark: Error committing transaction: %v", err)
		return false, MapRepoError(err, "committing bookmark")
	}
	return !removed, nil
}

// List pages through the caller's bookmarks, newest first unless Sort is "asc".
func (s *bookmarkService) List(ctx context.Context, userID int64, req *dto.ListBookmarksRequest) (*Page[models.BookmarkedPosting], error) {
	page, offset := normalizePage(req.Page)
	items, total, err := s.bookmarks.List(ctx, userID, req.Sort == "asc", PageSize, offset)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("listing bookmarks of user %d", userID))
	}
	return newPage(items, total, page), nil
}

type resumeService struct {
	resumes storage.ResumeRepository
}

// NewResumeService creates a new instance of ResumeService.
func NewResumeService(resumes storage.ResumeRepository) ResumeService {
	return &resumeService{resumes: resumes}
}

func (s *resumeService) List(ctx context.Context, userID int64) ([]models.Resume, error) {
	resumes, err := s.resumes.ListByUser(ctx, userID)
	if err != nil {
		return nil, MapRepoError(err, fmt.Sprintf("listing resumes of user %d", userID))
	}
	if resumes == nil {
		resumes = []models.Resume{}
	}
	return resumes, nil
}
