package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bjl5029/WSD-3/internal/database"
	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var (
	testDB      *database.DB
	migrateOnce sync.Once
	migrateErr  error
)

// getTestDB connects to TEST_DATABASE_URL and applies migrations once per run.
// Tests are skipped when the variable is unset.
func getTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL environment variable not set")
	}

	if testDB == nil {
		cfg, err := pgxpool.ParseConfig(dsn)
		require.NoError(t, err)
		pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
		require.NoError(t, err)
		testDB = database.NewDB(pool, 5*time.Second)
	}

	migrateOnce.Do(func() {
		migrateErr = database.Migrate(context.Background(), testDB)
	})
	require.NoError(t, migrateErr)
	return testDB
}

// cleanupTables truncates the given tables for test isolation.
func cleanupTables(ctx context.Context, t *testing.T, db *database.DB, tables ...string) {
	t.Helper()
	if len(tables) == 0 {
		return
	}
	_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	require.NoError(t, err, "Failed to truncate tables")
	log.Printf("Cleaned tables: %s", strings.Join(tables, ", "))
}

var allTables = []string{
	"bookmarks", "applications", "resumes", "posting_categories", "posting_tech_stacks",
	"postings", "job_categories", "tech_stacks", "locations", "companies", "users",
}

func createTestUser(t *testing.T, ctx context.Context, db *database.DB, email string) *models.User {
	t.Helper()
	user, err := NewUserRepo(db).Create(ctx, storage.CreateUserParams{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Tester",
	})
	require.NoError(t, err, "Failed to create test user %s", email)
	return user
}

func createTestPosting(t *testing.T, ctx context.Context, db *database.DB, company, title string) int64 {
	t.Helper()
	catalog := NewCatalogRepo(db)
	companyID, err := catalog.UpsertCompany(ctx, company)
	require.NoError(t, err)
	id, err := NewPostingRepo(db).Create(ctx, storage.CreatePostingParams{CompanyID: companyID, Title: title})
	require.NoError(t, err, "Failed to create test posting %s", title)
	return id
}

func strPtr(s string) *string { return &s }
