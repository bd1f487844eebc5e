package catalog

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hiretools/catalog-cli/internal/fetcher"
	"github.com/hiretools/catalog-cli/internal/model"
)

var (
	minutesRe       = regexp.MustCompile(`(?i)(\d+)\s*minutes?`)
	minutesLabelRe  = regexp.MustCompile(`(?i)time\s+in\s+minutes\s*=?\s*(\d+)`)
	testTypeAfterRe = regexp.MustCompile(`(?is)test type:\s*(.*?)(?:remote testing:|$)`)
)

// ParseDetails extracts enrichment fields from a product detail page.
func ParseDetails(r io.Reader) (model.ProductDetails, error) {
	var d model.ProductDetails

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return d, eris.Wrap(err, "catalog: parse detail page")
	}

	// Each training-calendar row pairs a heading with a paragraph of content.
	doc.Find("[class*='product-catalogue-training-calendar']").Each(func(_ int, row *goquery.Selection) {
		header := row.Find("h2, h3, h4").First()
		para := row.Find("p").First()
		if header.Length() == 0 || para.Length() == 0 {
			return
		}

		label := strings.ToLower(strings.TrimSpace(header.Text()))
		content := strings.TrimSpace(para.Text())

		switch {
		case strings.Contains(label, "description"):
			d.Description = content
		case strings.Contains(label, "job level"):
			d.JobLevels = content
		case strings.Contains(label, "language"):
			d.Languages = content
		case strings.Contains(label, "assessment length"), strings.Contains(label, "test length"):
			d.AssessmentLength = content
			d.CompletionTimeMinutes = completionMinutes(content)
		}
	})

	d.FullTestType = fullTestType(doc)

	if d.Description == "" {
		// First paragraph of the main content column.
		if p := doc.Find("div.col-12.col-md-8 p").First(); p.Length() > 0 {
			d.Description = strings.TrimSpace(p.Text())
		}
	}

	return d, nil
}

// completionMinutes pulls the numeric completion time out of the assessment
// length text.
func completionMinutes(content string) string {
	if m := minutesLabelRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := minutesRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

// fullTestType locates the "Test Type:" label and collects the category text
// next to it.
func fullTestType(doc *goquery.Document) string {
	label := doc.Find("span, b, strong, p, div").FilterFunction(func(_ int, el *goquery.Selection) bool {
		return strings.Contains(el.Text(), "Test Type:") && el.Children().Length() == 0
	}).First()

	if label.Length() > 0 {
		parent := label.Parent()

		full := ""
		if span := parent.Find("span[class*='ms-2']").First(); span.Length() > 0 {
			full = strings.TrimSpace(span.Text())
		}

		var keys []string
		parent.Find("span.product-catalogue_key").Each(func(_ int, key *goquery.Selection) {
			if text := strings.TrimSpace(key.Text()); text != "" {
				keys = append(keys, text)
			}
		})
		if len(keys) > 0 {
			joined := strings.Join(keys, ", ")
			switch {
			case full == "":
				full = joined
			case !strings.Contains(full, joined):
				full += " (" + joined + ")"
			}
		}
		if full != "" {
			return full
		}
	}

	// Fallback: flex container text of the form "Test Type: ... Remote Testing: ...".
	flex := doc.Find("div[class*='d-flex']").FilterFunction(func(_ int, el *goquery.Selection) bool {
		return strings.Contains(el.Text(), "Test Type:")
	}).First()
	if flex.Length() > 0 {
		if m := testTypeAfterRe.FindStringSubmatch(flex.Text()); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	return ""
}

// Enricher fetches product detail pages and merges their fields into the
// catalog records.
type Enricher struct {
	fetcher     fetcher.Fetcher
	concurrency int
	siteBase    string
}

// NewEnricher builds an Enricher. siteBase resolves relative product URLs.
func NewEnricher(f fetcher.Fetcher, siteBase string, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Enricher{fetcher: f, concurrency: concurrency, siteBase: siteBase}
}

// Run enriches every product with its detail-page fields. Individual page
// failures leave that row's enrichment columns empty and are logged, not
// fatal; the output preserves input order. Only context cancellation aborts
// the run.
func (e *Enricher) Run(ctx context.Context, products []model.Product) ([]model.EnrichedProduct, error) {
	enriched := make([]model.EnrichedProduct, len(products))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, p := range products {
		enriched[i].Product = p

		if p.ProductURL == "" {
			zap.L().Warn("skipping product without url", zap.String("title", p.Title))
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "catalog: enrich cancelled")
			}

			pageURL := absoluteURL(p.ProductURL, e.siteBase)
			body, err := e.fetcher.Get(ctx, pageURL)
			if err != nil {
				zap.L().Warn("detail page fetch failed",
					zap.String("url", pageURL),
					zap.Error(err),
				)
				return nil
			}

			details, err := ParseDetails(bytes.NewReader(body))
			if err != nil {
				zap.L().Warn("detail page parse failed",
					zap.String("url", pageURL),
					zap.Error(err),
				)
				return nil
			}

			enriched[i].ProductDetails = details
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return enriched, err
	}
	return enriched, nil
}
