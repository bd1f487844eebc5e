package catalog

import (
	"bytes"
	"context"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hiretools/catalog-cli/internal/config"
	"github.com/hiretools/catalog-cli/internal/fetcher"
	"github.com/hiretools/catalog-cli/internal/model"
)

// minPageItems is the page-size heuristic: a listing page with fewer items
// than this is treated as the last page.
const minPageItems = 5

// Stats summarizes a scrape run.
type Stats struct {
	Pages    int
	Products int
}

// Scraper walks the paginated catalog listing and accumulates product records.
type Scraper struct {
	fetcher  fetcher.Fetcher
	cfg      config.ScrapeConfig
	siteBase string
}

// NewScraper builds a Scraper for the configured catalog.
func NewScraper(f fetcher.Fetcher, cfg config.ScrapeConfig) (*Scraper, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: parse base url %s", cfg.BaseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, eris.Errorf("catalog: base url %s missing scheme or host", cfg.BaseURL)
	}

	return &Scraper{
		fetcher:  f,
		cfg:      cfg,
		siteBase: u.Scheme + "://" + u.Host,
	}, nil
}

// pageURL builds the listing URL for the given start offset.
func (s *Scraper) pageURL(start int) string {
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("type", strconv.Itoa(s.cfg.ProductType))
	return s.cfg.BaseURL + "?" + q.Encode()
}

// Run scrapes listing pages until the last page or the configured page
// ceiling. On a fetch or parse error it returns the records collected so
// far together with the error, so callers can still write partial results.
func (s *Scraper) Run(ctx context.Context) ([]model.Product, Stats, error) {
	var all []model.Product
	stats := Stats{}
	log := zap.L().With(zap.String("base_url", s.cfg.BaseURL))

	for page := 1; page <= s.cfg.MaxPages; page++ {
		start := (page - 1) * s.cfg.PageSize
		pageURL := s.pageURL(start)

		log.Info("scraping catalog page",
			zap.Int("page", page),
			zap.Int("start", start),
		)

		body, err := s.fetcher.Get(ctx, pageURL)
		if err != nil {
			return all, stats, eris.Wrapf(err, "catalog: fetch page %d", page)
		}

		parsed, err := ParsePage(bytes.NewReader(body), s.siteBase)
		if err != nil {
			return all, stats, eris.Wrapf(err, "catalog: parse page %d", page)
		}

		stats.Pages = page
		all = append(all, parsed.Products...)
		stats.Products = len(all)

		log.Info("extracted products",
			zap.Int("page", page),
			zap.Int("count", len(parsed.Products)),
			zap.Int("total", len(all)),
		)

		if len(parsed.Products) == 0 {
			log.Info("empty page, stopping")
			break
		}
		if !parsed.HasNext {
			log.Info("no next link, stopping")
			break
		}
		if len(parsed.Products) < minPageItems {
			log.Info("short page, stopping", zap.Int("count", len(parsed.Products)))
			break
		}
	}

	return all, stats, nil
}
