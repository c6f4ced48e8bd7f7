package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Source produces listings for a keyword.
type Source interface {
	Scrape(ctx context.Context, keyword string, pages int) ([]Listing, error)
}

// Processor stores listings.
type Processor interface {
	Process(ctx context.Context, listings []Listing) Result
}

// Runner crawls a keyword list on a schedule.
type Runner struct {
	source    Source
	processor Processor
	keywords  []string
	pages     int
	interval  time.Duration

	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	running sync.Mutex
	wg      sync.WaitGroup
}

// NewRunner creates a Runner that crawls pages result pages per keyword every interval.
func NewRunner(source Source, processor Processor, keywords []string, pages int, interval time.Duration) *Runner {
	if pages < 1 {
		pages = 1
	}
	if interval <= 0 {
		interval = time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		source:    source,
		processor: processor,
		keywords:  keywords,
		pages:     pages,
		interval:  interval,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// RunOnce runs a single pass over the keyword list. A failing keyword is logged and the
// pass moves on; the error is only ctx's when the pass was cancelled.
func (r *Runner) RunOnce(ctx context.Context) (Result, error) {
	var total Result
	for _, keyword := range r.keywords {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		log.Printf("Runner: crawling %q (%d pages)", keyword, r.pages)
		listings, err := r.source.Scrape(ctx, keyword, r.pages)
		if err != nil {
			log.Printf("Runner: keyword %q failed: %v", keyword, err)
			continue
		}
		res := r.processor.Process(ctx, listings)
		log.Printf("Runner: keyword %q: %d listings, %s", keyword, len(listings), res)
		total.Add(res)
	}
	return total, nil
}

// Start runs a first pass right away and then schedules one every interval. A pass still
// running when the next one is due makes the next one skip.
func (r *Runner) Start() error {
	schedule := fmt.Sprintf("@every %s", r.interval)
	if _, err := r.cron.AddFunc(schedule, r.pass); err != nil {
		return fmt.Errorf("failed to schedule crawl %q: %w", schedule, err)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.pass()
	}()

	r.cron.Start()
	log.Printf("Runner: scheduled %d keywords with %s", len(r.keywords), schedule)
	return nil
}

func (r *Runner) pass() {
	if !r.running.TryLock() {
		log.Println("Runner: previous pass still running, skipping")
		return
	}
	defer r.running.Unlock()

	res, err := r.RunOnce(r.ctx)
	if err != nil {
		log.Printf("Runner: pass interrupted: %v (%s)", err, res)
		return
	}
	log.Printf("Runner: pass complete, %s", res)
}

// Stop cancels the running pass at the next keyword or listing boundary and waits for it.
func (r *Runner) Stop() {
	r.cancel()
	<-r.cron.Stop().Done()
	r.wg.Wait()
	log.Println("Runner: stopped")
}
