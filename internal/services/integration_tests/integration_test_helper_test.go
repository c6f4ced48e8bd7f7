package integration_tests

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bjl5029/WSD-3/internal/catalog"
	"github.com/bjl5029/WSD-3/internal/database"
	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"
	"github.com/bjl5029/WSD-3/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var (
	testDB      *database.DB
	testRedis   *redis.Client
	migrateOnce sync.Once
	migrateErr  error
)

// getTestClients returns the shared database and, when TEST_REDIS_URL is set, a Redis
// client. Tests are skipped without TEST_DATABASE_URL.
func getTestClients(t *testing.T) (*database.DB, *redis.Client) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL environment variable not set")
	}

	if testDB == nil {
		cfg, err := pgxpool.ParseConfig(dsn)
		require.NoError(t, err)
		cfg.MaxConns = 10
		pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
		require.NoError(t, err, "Failed to connect to test database")
		testDB = database.NewDB(pool, 5*time.Second)
	}
	migrateOnce.Do(func() {
		migrateErr = database.Migrate(context.Background(), testDB)
	})
	require.NoError(t, migrateErr)

	if testRedis == nil {
		if redisURL := os.Getenv("TEST_REDIS_URL"); redisURL != "" {
			opts, err := redis.ParseURL(redisURL)
			require.NoError(t, err, "Failed to parse TEST_REDIS_URL")
			testRedis = redis.NewClient(opts)
			require.NoError(t, testRedis.Ping(context.Background()).Err(), "Failed to connect to test redis")
		}
	}
	return testDB, testRedis
}

func cleanupTables(ctx context.Context, t *testing.T, db *database.DB) {
	t.Helper()
	tables := []string{
		"bookmarks", "applications", "resumes", "posting_categories", "posting_tech_stacks",
		"postings", "job_categories", "tech_stacks", "locations", "companies", "users",
	}
	_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", ")))
	require.NoError(t, err, "Failed to truncate tables")
	log.Printf("Cleaned tables: %s", strings.Join(tables, ", "))
}

// Helper function to create a user for tests
func createTestUser(t *testing.T, ctx context.Context, db *database.DB, email string) *models.User {
	t.Helper()
	user, err := postgres.NewUserRepo(db).Create(ctx, storage.CreateUserParams{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Tester",
	})
	require.NoError(t, err, "Failed to create test user %s", email)
	return user
}

// Helper function to create a posting for tests
func createTestPosting(t *testing.T, ctx context.Context, db *database.DB, company, title string, stacks ...string) int64 {
	t.Helper()
	resolver := catalog.NewResolver(postgres.NewCatalogRepo(db), nil)
	companyID, err := resolver.Company(ctx, company)
	require.NoError(t, err)

	postings := postgres.NewPostingRepo(db)
	id, err := postings.Create(ctx, storage.CreatePostingParams{CompanyID: companyID, Title: title})
	require.NoError(t, err, "Failed to create test posting %s", title)

	if len(stacks) > 0 {
		ids, err := resolver.TechStacks(ctx, stacks, catalog.PolicyCreateUnknown)
		require.NoError(t, err)
		require.NoError(t, postings.AttachTechStacks(ctx, id, ids))
	}
	return id
}
