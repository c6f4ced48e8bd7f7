// Command crawler fills the job board from Saramin search results or a CSV export.
//
//	crawler --keyword python --keyword java --pages 3
//	crawler --import postings.csv
//	crawler --keyword go --export out.csv
//	crawler --schedule
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bjl5029/WSD-3/config"
	"github.com/bjl5029/WSD-3/internal/app"
	"github.com/bjl5029/WSD-3/internal/database"
	"github.com/bjl5029/WSD-3/internal/ingest"

	"github.com/spf13/pflag"
)

type options struct {
	keywords   []string
	pages      int
	importPath string
	exportPath string
	schedule   bool
}

func parseFlags(args []string, cfg config.IngestConfig) (options, error) {
	fs := pflag.NewFlagSet("crawler", pflag.ContinueOnError)
	opts := options{}
	fs.StringSliceVarP(&opts.keywords, "keyword", "k", cfg.Keywords, "search keywords, repeatable or comma separated")
	fs.IntVarP(&opts.pages, "pages", "p", cfg.Pages, "result pages per keyword")
	fs.StringVar(&opts.importPath, "import", "", "import postings from a CSV file instead of crawling")
	fs.StringVar(&opts.exportPath, "export", "", "write scraped postings to a CSV file instead of storing them")
	fs.BoolVar(&opts.schedule, "schedule", false, "keep running and crawl every ingest.interval")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.importPath != "" && opts.exportPath != "" {
		return opts, fmt.Errorf("--import and --export are mutually exclusive")
	}
	if opts.schedule && (opts.importPath != "" || opts.exportPath != "") {
		return opts, fmt.Errorf("--schedule cannot be combined with --import or --export")
	}
	if opts.importPath == "" && len(opts.keywords) == 0 {
		return opts, fmt.Errorf("at least one --keyword is required")
	}
	return opts, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	opts, err := parseFlags(os.Args[1:], cfg.Ingest)
	if err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("Invalid arguments: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.exportPath != "" {
		if err := export(ctx, cfg.Ingest, opts); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

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

	application, err := app.New(ctx, cfg, db, nil)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if opts.importPath != "" {
		if err := importCSV(ctx, application.Ingest, opts.importPath); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		return
	}

	cfg.Ingest.Keywords = opts.keywords
	cfg.Ingest.Pages = opts.pages
	runner := application.NewCrawler()

	if opts.schedule {
		if err := runner.Start(); err != nil {
			log.Fatalf("Failed to start crawler: %v", err)
		}
		<-ctx.Done()
		runner.Stop()
		return
	}

	res, err := runner.RunOnce(ctx)
	if err != nil {
		log.Printf("Crawl interrupted: %v", err)
	}
	log.Printf("Crawl finished: %s", res)
}

func importCSV(ctx context.Context, pipeline *ingest.Pipeline, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	listings, rowErrs := ingest.ReadCSV(f)
	for _, rowErr := range rowErrs {
		log.Printf("Import: %v", rowErr)
	}
	res := pipeline.Process(ctx, listings)
	log.Printf("Import finished: %d rows read, %d rejected, %s", len(listings), len(rowErrs), res)
	return nil
}

func export(ctx context.Context, cfg config.IngestConfig, opts options) error {
	scraper := ingest.NewSaraminScraper(cfg)
	var all []ingest.Listing
	for _, keyword := range opts.keywords {
		listings, err := scraper.Scrape(ctx, keyword, opts.pages)
		if err != nil {
			log.Printf("Export: keyword %q failed: %v", keyword, err)
			continue
		}
		all = append(all, listings...)
	}

	f, err := os.Create(opts.exportPath)
	if err != nil {
		return err
	}
	if err := ingest.WriteCSV(f, all); err != nil {
		f.Close()
		return err
	}
	log.Printf("Export: wrote %d listings to %s", len(all), opts.exportPath)
	return f.Close()
}
