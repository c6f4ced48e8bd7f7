package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/bjl5029/WSD-3/internal/mocks"
	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolver_TechStacks_DropUnknown(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	r := NewResolver(repo, nil)

	repo.On("FindTechStack", ctx, "Python").Return(int64(1), nil).Once()
	repo.On("FindTechStack", ctx, "Rust").Return(int64(0), storage.ErrNotFound).Once()

	ids, err := r.TechStacks(ctx, []string{"Python", "Rust", " "}, PolicyDropUnknown)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	// Second lookup is served from the cache.
	ids, err = r.TechStacks(ctx, []string{"python"}, PolicyDropUnknown)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpsertTechStack", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_TechStacks_CreateUnknown(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	r := NewResolver(repo, nil)

	repo.On("UpsertTechStack", ctx, "Rust", DefaultStackCategory).Return(int64(9), nil)
	repo.On("UpsertTechStack", ctx, "rust", DefaultStackCategory).Return(int64(9), nil)

	ids, err := r.TechStacks(ctx, []string{"Rust", "rust"}, PolicyCreateUnknown)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, ids)
	assert.Equal(t, 0, r.Cache().Len(), "created stacks must not enter the cache before commit")
}

func TestResolver_TechStacks_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	r := NewResolver(repo, nil)
	boom := errors.New("boom")

	repo.On("FindTechStack", ctx, "Go").Return(int64(0), boom)

	_, err := r.TechStacks(ctx, []string{"Go"}, PolicyDropUnknown)
	assert.ErrorIs(t, err, boom)
}

func TestResolver_LocationNormalisesDistrict(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	r := NewResolver(repo, nil)

	blank := "  "
	gangnam := " 강남구 "
	repo.On("UpsertLocation", ctx, "서울", (*string)(nil)).Return(int64(1), nil).Twice()
	repo.On("UpsertLocation", ctx, "서울", mock.MatchedBy(func(d *string) bool {
		return d != nil && *d == "강남구"
	})).Return(int64(2), nil).Once()

	id, err := r.Location(ctx, "서울", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = r.Location(ctx, " 서울 ", &blank)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = r.Location(ctx, "서울", &gangnam)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	_, err = r.Location(ctx, "", nil)
	assert.ErrorIs(t, err, ErrEmptyName)
	repo.AssertExpectations(t)
}

func TestResolver_KnownCategory(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	r := NewResolver(repo, nil)

	repo.On("FindCategory", ctx, "신입").Return(int64(3), nil)
	repo.On("FindCategory", ctx, "경력 3년↑").Return(int64(0), storage.ErrNotFound)

	id, ok, err := r.KnownCategory(ctx, "신입")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)

	_, ok, err = r.KnownCategory(ctx, "경력 3년↑")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.KnownCategory(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolver_SeedAndWarmCache(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	r := NewResolver(repo, nil)

	seed, err := LoadSeed()
	require.NoError(t, err)
	require.NotEmpty(t, seed.TechStacks)
	assert.Contains(t, seed.JobCategories, "신입·경력")

	repo.On("UpsertTechStack", ctx, mock.Anything, mock.Anything).Return(int64(1), nil)
	repo.On("UpsertCategory", ctx, mock.Anything).Return(int64(1), nil)
	require.NoError(t, r.Seed(ctx))
	repo.AssertNumberOfCalls(t, "UpsertTechStack", len(seed.TechStacks))
	repo.AssertNumberOfCalls(t, "UpsertCategory", len(seed.JobCategories))

	repo.On("ListTechStacks", ctx).Return([]models.TechStack{{ID: 5, Name: "Python"}, {ID: 6, Name: "AWS"}}, nil)
	require.NoError(t, r.WarmCache(ctx))
	id, ok := r.Cache().Get("aws")
	assert.True(t, ok)
	assert.Equal(t, int64(6), id)
}

func TestParseSeed_DefaultsCategory(t *testing.T) {
	seed, err := parseSeed([]byte("tech_stacks:\n  - name: Go\njob_categories: [인턴]\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultStackCategory, seed.TechStacks[0].Category)

	_, err = parseSeed([]byte("tech_stacks:\n  - name: ' '\n"))
	assert.Error(t, err)
}
