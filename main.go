package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/bjl5029/WSD-3/config"
	"github.com/bjl5029/WSD-3/internal/app"
	"github.com/bjl5029/WSD-3/internal/database"
	"github.com/bjl5029/WSD-3/internal/ingest"
	"github.com/bjl5029/WSD-3/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnectionPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	application, err := app.New(ctx, cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	var crawler *ingest.Runner
	if cfg.Ingest.Schedule {
		crawler = application.NewCrawler()
		if err := crawler.Start(); err != nil {
			log.Fatalf("Failed to start crawler: %v", err)
		}
	} else {
		log.Println("Crawler schedule disabled, run cmd/crawler to ingest postings.")
	}

	srv, err := server.NewServer(ctx, application)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	}

	if crawler != nil {
		crawler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shut down: %v", err)
	}

	log.Println("Application gracefully stopped.")
}
