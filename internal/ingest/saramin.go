package ingest

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/bjl5029/WSD-3/config"
	"github.com/bjl5029/WSD-3/internal/catalog"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultSaraminURL = "https://www.saramin.co.kr/zf_user/search/recruit"
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// SaraminScraper crawls the Saramin recruit search result pages.
type SaraminScraper struct {
	baseURL   string
	userAgent string
	delay     time.Duration
	sanitizer *bluemonday.Policy
}

// NewSaraminScraper creates a scraper from the ingest configuration.
func NewSaraminScraper(cfg config.IngestConfig) *SaraminScraper {
	s := &SaraminScraper{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		delay:     cfg.PageDelay,
		sanitizer: bluemonday.StrictPolicy(),
	}
	if s.baseURL == "" {
		s.baseURL = DefaultSaraminURL
	}
	if s.userAgent == "" {
		s.userAgent = defaultUserAgent
	}
	return s
}

// SearchURL builds the result page URL for keyword and the 1-indexed page.
func (s *SaraminScraper) SearchURL(keyword string, page int) string {
	q := url.Values{}
	q.Set("searchType", "search")
	q.Set("searchword", keyword)
	q.Set("recruitPage", strconv.Itoa(page))
	return s.baseURL + "?" + q.Encode()
}

func (s *SaraminScraper) newCollector() (*colly.Collector, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.userAgent),
	)
	if s.delay > 0 {
		if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: s.delay}); err != nil {
			return nil, fmt.Errorf("failed to set crawl delay: %w", err)
		}
	}
	return c, nil
}

// Scrape fetches pages 1..pages for keyword. A failing page is logged and skipped; an
// error is returned only when no page could be fetched.
func (s *SaraminScraper) Scrape(ctx context.Context, keyword string, pages int) ([]Listing, error) {
	c, err := s.newCollector()
	if err != nil {
		return nil, err
	}

	var listings []Listing
	c.OnHTML(".item_recruit", func(e *colly.HTMLElement) {
		listing, ok := s.parseItem(e.DOM, e.Request.URL)
		if !ok {
			log.Printf("SaraminScraper: skipping item without company, title, link or deadline on %s", e.Request.URL)
			return
		}
		listings = append(listings, listing)
	})

	var lastErr error
	fetched := 0
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return listings, err
		}
		pageURL := s.SearchURL(keyword, page)
		if err := c.Visit(pageURL); err != nil {
			log.Printf("SaraminScraper: failed to fetch page %d for %q: %v", page, keyword, err)
			lastErr = err
			continue
		}
		fetched++
		log.Printf("SaraminScraper: page %d for %q done (%d listings so far)", page, keyword, len(listings))
	}

	if fetched == 0 && lastErr != nil {
		return nil, fmt.Errorf("scraping %q: %w", keyword, lastErr)
	}
	return listings, nil
}

// ParsePage extracts listings from a saved result page. Relative links are resolved
// against pageURL.
func (s *SaraminScraper) ParsePage(r io.Reader, pageURL string) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url: %w", err)
	}

	var listings []Listing
	doc.Find(".item_recruit").Each(func(_ int, item *goquery.Selection) {
		if listing, ok := s.parseItem(item, base); ok {
			listings = append(listings, listing)
		}
	})
	return listings, nil
}

func (s *SaraminScraper) text(sel *goquery.Selection) string {
	return catalog.NormalizeName(html.UnescapeString(s.sanitizer.Sanitize(sel.Text())))
}

// parseItem reads one .item_recruit card. Cards without company, title, link or
// deadline are rejected.
func (s *SaraminScraper) parseItem(item *goquery.Selection, base *url.URL) (Listing, bool) {
	company := s.text(item.Find(".corp_name a").First())
	titleLink := item.Find(".job_tit a").First()
	title := s.text(titleLink)
	href, hasHref := titleLink.Attr("href")
	deadline := item.Find(".job_date .date").First()

	if company == "" || title == "" || !hasHref || deadline.Length() == 0 {
		return Listing{}, false
	}

	link := href
	if ref, err := url.Parse(href); err == nil && base != nil {
		link = base.ResolveReference(ref).String()
	}

	conditions := item.Find(".job_condition span")
	condition := func(i int) *string {
		if i >= conditions.Length() {
			return nil
		}
		return optional(s.text(conditions.Eq(i)))
	}

	listing := Listing{
		Company:        company,
		Title:          title,
		Link:           optional(link),
		Location:       condition(0),
		Experience:     condition(1),
		Education:      condition(2),
		EmploymentType: condition(3),
		Deadline:       optional(s.text(deadline)),
		Sector:         optional(s.text(item.Find(".job_sector").First())),
		Salary:         optional(s.text(item.Find(".area_badge .badge").First())),
	}
	return listing, true
}
