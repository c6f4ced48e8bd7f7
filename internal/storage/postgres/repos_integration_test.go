package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_Integration(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	cleanupTables(ctx, t, db, allTables...)
	repo := NewUserRepo(db)

	user := createTestUser(t, ctx, db, "a@example.com")
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.Equal(t, models.UserRoleUser, user.Role)

	_, err := repo.Create(ctx, storage.CreateUserParams{Email: "a@example.com", PasswordHash: "x", Name: "dup"})
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)

	require.NoError(t, repo.UpdateProfile(ctx, user.ID, storage.ProfileParams{Name: "Renamed", Phone: strPtr("010")}))
	require.NoError(t, repo.TouchLastLogin(ctx, user.ID))
	require.NoError(t, repo.SetStatus(ctx, user.ID, models.UserStatusInactive))

	got, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "010", *got.Phone)
	assert.NotNil(t, got.LastLogin)
	assert.Equal(t, models.UserStatusInactive, got.Status)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCatalogRepo_ConcurrentUpsertsConverge(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	cleanupTables(ctx, t, db, allTables...)
	repo := NewCatalogRepo(db)

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = repo.UpsertCompany(ctx, "Acme")
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestCatalogRepo_LocationNullDistrictIsDistinctKey(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	cleanupTables(ctx, t, db, allTables...)
	repo := NewCatalogRepo(db)

	nullID, err := repo.UpsertLocation(ctx, "서울", nil)
	require.NoError(t, err)
	again, err := repo.UpsertLocation(ctx, "서울", nil)
	require.NoError(t, err)
	assert.Equal(t, nullID, again)

	emptyID, err := repo.UpsertLocation(ctx, "서울", strPtr(""))
	require.NoError(t, err)
	assert.NotEqual(t, nullID, emptyID)

	gangnam, err := repo.UpsertLocation(ctx, "서울", strPtr("강남구"))
	require.NoError(t, err)
	assert.NotEqual(t, nullID, gangnam)
	assert.NotEqual(t, emptyID, gangnam)
}

func TestCatalogRepo_TechStackIsCaseInsensitive(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	cleanupTables(ctx, t, db, allTables...)
	repo := NewCatalogRepo(db)

	id, err := repo.UpsertTechStack(ctx, "Python", "Programming")
	require.NoError(t, err)
	same, err := repo.UpsertTechStack(ctx, "python", "Other")
	require.NoError(t, err)
	assert.Equal(t, id, same)

	found, err := repo.FindTechStack(ctx, "PYTHON")
	require.NoError(t, err)
	assert.Equal(t, id, found)

	_, err = repo.FindTechStack(ctx, "COBOL")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPostingRepo_SearchAndDetail(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	cleanupTables(ctx, t, db, allTables...)
	repo := NewPostingRepo(db)
	catalog := NewCatalogRepo(db)

	pyID, err := catalog.UpsertTechStack(ctx, "Python", "Programming")
	require.NoError(t, err)
	newbie, err := catalog.UpsertCategory(ctx, "신입")
	require.NoError(t, err)

	first := createTestPosting(t, ctx, db, "Acme", "Backend Engineer")
	second := createTestPosting(t, ctx, db, "Acme", "Frontend Engineer")
	other := createTestPosting(t, ctx, db, "Globex", "Data Engineer")
	require.NoError(t, repo.AttachTechStacks(ctx, first, []int64{pyID}))
	require.NoError(t, repo.AttachTechStacks(ctx, other, []int64{pyID}))
	require.NoError(t, repo.AttachCategories(ctx, first, []int64{newbie}))

	t.Run("keyword", func(t *testing.T) {
		items, total, err := repo.Search(ctx, storage.PostingFilter{Keyword: "backend", Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, first, items[0].ID)
		assert.Equal(t, []string{"Python"}, items[0].TechStacks)
		assert.Equal(t, []string{"신입"}, items[0].JobCategories)
	})

	t.Run("tech stack membership is case-insensitive and one row per posting", func(t *testing.T) {
		items, total, err := repo.Search(ctx, storage.PostingFilter{TechStacks: []string{"python", "PYTHON"}, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, items, 2)
	})

	t.Run("paging", func(t *testing.T) {
		items, total, err := repo.Search(ctx, storage.PostingFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, items, 1)
	})

	t.Run("deleted postings are hidden", func(t *testing.T) {
		require.NoError(t, repo.SoftDelete(ctx, second))
		_, total, err := repo.Search(ctx, storage.PostingFilter{Company: "acme", Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		_, err = repo.IncrementViewCount(ctx, second)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, repo.SoftDelete(ctx, second), storage.ErrNotFound)
	})

	t.Run("view count and related", func(t *testing.T) {
		p, err := repo.IncrementViewCount(ctx, first)
		require.NoError(t, err)
		assert.EqualValues(t, 1, p.ViewCount)
		p, err = repo.IncrementViewCount(ctx, first)
		require.NoError(t, err)
		assert.EqualValues(t, 2, p.ViewCount)

		related, err := repo.Related(ctx, p, 5)
		require.NoError(t, err)
		require.Len(t, related, 1)
		assert.Equal(t, other, related[0].ID)
	})
}

func TestApplicationAndBookmarkRepos_Integration(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	cleanupTables(ctx, t, db, allTables...)

	user := createTestUser(t, ctx, db, "b@example.com")
	postingID := createTestPosting(t, ctx, db, "Acme", "Engineer")

	apps := NewApplicationRepo(db)
	appID, err := apps.Create(ctx, user.ID, postingID, nil)
	require.NoError(t, err)
	_, err = apps.Create(ctx, user.ID, postingID, nil)
	assert.ErrorIs(t, err, storage.ErrConflict)

	list, total, err := apps.List(ctx, storage.ApplicationListFilter{UserID: user.ID, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Engineer", list[0].Title)

	require.NoError(t, apps.Delete(ctx, appID))
	assert.ErrorIs(t, apps.Delete(ctx, appID), storage.ErrNotFound)

	bookmarks := NewBookmarkRepo(db)
	added, err := bookmarks.Add(ctx, user.ID, postingID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = bookmarks.Add(ctx, user.ID, postingID)
	require.NoError(t, err)
	assert.False(t, added)

	marked, total, err := bookmarks.List(ctx, user.ID, false, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, marked, 1)
	assert.Equal(t, postingID, marked[0].Posting.ID)
	assert.Equal(t, []string{}, marked[0].Posting.TechStacks)

	removed, err := bookmarks.Remove(ctx, user.ID, postingID)
	require.NoError(t, err)
	assert.True(t, removed)

	resumes := NewResumeRepo(db)
	resumeID, err := resumes.Create(ctx, &models.Resume{UserID: user.ID, Title: "CV", Content: []byte("%PDF-1.4")})
	require.NoError(t, err)
	_, err = resumes.GetOwned(ctx, resumeID, user.ID+1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	owned, err := resumes.GetOwned(ctx, resumeID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), owned.Content)
}

func TestPostingRepo_CompanyTitleCheckSerializesInserts(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	cleanupTables(ctx, t, db, allTables...)
	repo := NewPostingRepo(db)

	companyID, err := NewCatalogRepo(db).UpsertCompany(ctx, "Acme")
	require.NoError(t, err)

	const workers = 8
	inserted := make([]bool, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tx, err := db.Begin(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			defer tx.Rollback(ctx)

			postings := repo.WithTx(tx)
			exists, err := postings.ExistsByCompanyTitle(ctx, companyID, "Backend Engineer")
			if err != nil || exists {
				errs[i] = err
				return
			}
			if _, err := postings.Create(ctx, storage.CreatePostingParams{CompanyID: companyID, Title: "Backend Engineer"}); err != nil {
				errs[i] = err
				return
			}
			errs[i] = tx.Commit(ctx)
			inserted[i] = errs[i] == nil
		}(i)
	}
	wg.Wait()

	wins := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if inserted[i] {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	var count int
	require.NoError(t, db.QueryRow(ctx,
		`SELECT COUNT(*) FROM postings WHERE company_id = $1 AND title = $2`, companyID, "Backend Engineer").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestPostingRepo_UpdateRestoresDeletedPosting(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	cleanupTables(ctx, t, db, allTables...)
	repo := NewPostingRepo(db)

	id := createTestPosting(t, ctx, db, "Acme", "Backend Engineer")
	require.NoError(t, repo.SoftDelete(ctx, id))
	assert.ErrorIs(t, repo.SoftDelete(ctx, id), storage.ErrNotFound)

	exists, err := repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)

	active := models.PostingStatusActive
	require.NoError(t, repo.Update(ctx, id, storage.UpdatePostingParams{Status: &active}))

	exists, err = repo.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.ErrorIs(t, repo.Update(ctx, 999999, storage.UpdatePostingParams{Status: &active}), storage.ErrNotFound)
}
