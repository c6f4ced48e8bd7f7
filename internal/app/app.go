package app

import (
	"context"
	"fmt"
	"log"

	"github.com/bjl5029/WSD-3/config"
	"github.com/bjl5029/WSD-3/internal/auth"
	"github.com/bjl5029/WSD-3/internal/catalog"
	"github.com/bjl5029/WSD-3/internal/database"
	"github.com/bjl5029/WSD-3/internal/ingest"
	"github.com/bjl5029/WSD-3/internal/services"
	"github.com/bjl5029/WSD-3/internal/storage/postgres"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

// Application holds core application dependencies.
type Application struct {
	Config      *config.Config
	DB          *database.DB
	RedisClient *redis.Client
	Validator   *validator.Validate

	Resolver     *catalog.Resolver
	Auth         services.AuthService
	Authorizer   services.Authorizer
	Postings     services.PostingService
	Applications services.ApplicationService
	Bookmarks    services.BookmarkService
	Resumes      services.ResumeService
	Ingest       *ingest.Pipeline
}

// New wires repositories and services over db. rdb may be nil. The catalog is seeded
// and the tech-stack cache warmed before New returns.
func New(ctx context.Context, cfg *config.Config, db *database.DB, rdb *redis.Client) (*Application, error) {
	users := postgres.NewUserRepo(db)
	postings := postgres.NewPostingRepo(db)
	applications := postgres.NewApplicationRepo(db)
	resumes := postgres.NewResumeRepo(db)
	bookmarks := postgres.NewBookmarkRepo(db)

	resolver := catalog.NewResolver(postgres.NewCatalogRepo(db), catalog.NewStackCache())
	if err := resolver.Seed(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}
	if err := resolver.WarmCache(ctx); err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	retry := ingest.RetryPolicy{Attempts: cfg.Ingest.RetryAttempts, Delay: cfg.Ingest.RetryDelay}

	application := &Application{
		Config:      cfg,
		DB:          db,
		RedisClient: rdb,
		Validator:   validator.New(),

		Resolver:     resolver,
		Auth:         services.NewAuthService(users, tokens, auth.NewRefreshStore(rdb)),
		Authorizer:   services.RoleAuthorizer{},
		Postings:     services.NewPostingService(db, postings, resolver),
		Applications: services.NewApplicationService(db, applications, resumes, postings),
		Bookmarks:    services.NewBookmarkService(db, bookmarks, postings),
		Resumes:      services.NewResumeService(resumes),
		Ingest:       ingest.NewPipeline(db, postings, resolver, retry),
	}
	log.Println("Application: services initialized")
	return application, nil
}

// NewCrawler builds the scheduled Saramin crawler feeding the ingest pipeline.
func (a *Application) NewCrawler() *ingest.Runner {
	cfg := a.Config.Ingest
	return ingest.NewRunner(ingest.NewSaraminScraper(cfg), a.Ingest, cfg.Keywords, cfg.Pages, cfg.Interval)
}
