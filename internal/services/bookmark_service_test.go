package services_test

import (
	"context"
	"testing"

	"github.com/bjl5029/WSD-3/internal/mocks"
	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/services"
	"github.com/bjl5029/WSD-3/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookmarkService_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("Adds when absent", func(t *testing.T) {
		tx := &mocks.Tx{}
		bookmarks, postings := &mocks.BookmarkRepository{}, &mocks.PostingRepository{}
		svc := services.NewBookmarkService(mocks.NewTxBeginner(tx), bookmarks, postings)
		bookmarks.On("Remove", ctx, int64(1), int64(10)).Return(false, nil)
		postings.On("Exists", ctx, int64(10)).Return(true, nil)
		bookmarks.On("Add", ctx, int64(1), int64(10)).Return(true, nil).Once()

		added, err := svc.Toggle(ctx, 1, 10)
		require.NoError(t, err)
		assert.True(t, added)
		assert.True(t, tx.Committed)
		bookmarks.AssertExpectations(t)
	})

	t.Run("Removes when present", func(t *testing.T) {
		tx := &mocks.Tx{}
		bookmarks, postings := &mocks.BookmarkRepository{}, &mocks.PostingRepository{}
		svc := services.NewBookmarkService(mocks.NewTxBeginner(tx), bookmarks, postings)
		bookmarks.On("Remove", ctx, int64(1), int64(10)).Return(true, nil)

		added, err := svc.Toggle(ctx, 1, 10)
		require.NoError(t, err)
		assert.False(t, added)
		assert.True(t, tx.Committed)
		bookmarks.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
		postings.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("Posting missing", func(t *testing.T) {
		tx := &mocks.Tx{}
		bookmarks, postings := &mocks.BookmarkRepository{}, &mocks.PostingRepository{}
		svc := services.NewBookmarkService(mocks.NewTxBeginner(tx), bookmarks, postings)
		bookmarks.On("Remove", ctx, int64(1), int64(99)).Return(false, nil)
		postings.On("Exists", ctx, int64(99)).Return(false, nil)

		_, err := svc.Toggle(ctx, 1, 99)
		assertServiceError(t, err, services.ErrNotFound, "Job posting not found")
		assert.False(t, tx.Committed)
	})

	t.Run("Concurrent add still reports bookmarked", func(t *testing.T) {
		tx := &mocks.Tx{}
		bookmarks, postings := &mocks.BookmarkRepository{}, &mocks.PostingRepository{}
		svc := services.NewBookmarkService(mocks.NewTxBeginner(tx), bookmarks, postings)
		bookmarks.On("Remove", ctx, int64(1), int64(10)).Return(false, nil)
		postings.On("Exists", ctx, int64(10)).Return(true, nil)
		bookmarks.On("Add", ctx, int64(1), int64(10)).Return(false, nil)

		added, err := svc.Toggle(ctx, 1, 10)
		require.NoError(t, err)
		assert.True(t, added)
	})
}

func TestBookmarkService_List(t *testing.T) {
	ctx := context.Background()
	bookmarks := &mocks.BookmarkRepository{}
	svc := services.NewBookmarkService(mocks.NewTxBeginner(&mocks.Tx{}), bookmarks, &mocks.PostingRepository{})

	bookmarks.On("List", ctx, int64(1), false, services.PageSize, 0).Return(nil, 0, nil).Once()
	page, err := svc.List(ctx, 1, &dto.ListBookmarksRequest{Sort: "desc"})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)

	bookmarks.On("List", ctx, int64(1), true, services.PageSize, 40).Return([]models.BookmarkedPosting{{BookmarkID: 7}}, 41, nil).Once()
	page, err = svc.List(ctx, 1, &dto.ListBookmarksRequest{Sort: "asc", Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(7), page.Items[0].BookmarkID)
}

func TestResumeService_List(t *testing.T) {
	ctx := context.Background()
	resumes := &mocks.ResumeRepository{}
	svc := services.NewResumeService(resumes)

	resumes.On("ListByUser", ctx, int64(1)).Return(nil, nil).Once()
	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
