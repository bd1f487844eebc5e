// Package catalog scrapes the vendor product catalog: paginated listing
// pages into product records, and product detail pages into enrichment
// fields.
package catalog

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/hiretools/catalog-cli/internal/model"
)

// Page holds the products extracted from one listing page plus what the
// page's pagination controls say about further pages.
type Page struct {
	Products []model.Product
	// HasNext is false only when the page carries pagination controls
	// with no "next" link. Pages without pagination markup leave it true;
	// the scraper's item-count heuristics decide there.
	HasNext bool
}

// productLinkPath marks anchors that point at product detail pages. Used by
// the fallback extractor when the listing table is missing.
const productLinkPath = "/solutions/products/product-catalog/view/"

var nextTextRe = regexp.MustCompile(`(?i)\bnext\b`)

// ParsePage extracts product records from a catalog listing page.
// siteBase (scheme://host) resolves relative product URLs.
func ParsePage(r io.Reader, siteBase string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: parse page")
	}

	rows := doc.Find("table tbody tr")
	if rows.Length() == 0 {
		rows = doc.Find("tr[data-course-id]")
	}

	var products []model.Product
	if rows.Length() > 0 {
		rows.Each(func(_ int, row *goquery.Selection) {
			products = append(products, extractRow(row, siteBase))
		})
	} else {
		// No table markup at all: fall back to scanning product links.
		doc.Find("a[href*='" + productLinkPath + "']").Each(func(_ int, link *goquery.Selection) {
			products = append(products, extractFromLink(link, siteBase))
		})
	}

	return &Page{
		Products: products,
		HasNext:  hasNextLink(doc),
	}, nil
}

func extractRow(row *goquery.Selection, siteBase string) model.Product {
	p := model.Product{}
	p.CourseID, _ = row.Attr("data-course-id")

	if a := row.Find("a").First(); a.Length() > 0 {
		p.Title = strings.TrimSpace(a.Text())
		if href, ok := a.Attr("href"); ok {
			p.ProductURL = absoluteURL(href, siteBase)
		}
	}

	cells := row.Find("td")
	if cells.Length() >= 4 {
		p.RemoteTesting = yesNo(cells.Eq(1))
		p.AdaptiveIRT = yesNo(cells.Eq(2))
		p.TestType = testType(cells.Eq(3))
	}

	return p
}

// yesNo reports Yes when the cell contains an element whose class carries a
// "yes" or "circle" indicator, the catalog's checkmark convention.
func yesNo(cell *goquery.Selection) string {
	found := cell.Find("*").FilterFunction(func(_ int, el *goquery.Selection) bool {
		cls, _ := el.Attr("class")
		return strings.Contains(cls, "yes") || strings.Contains(cls, "circle")
	})
	if found.Length() > 0 {
		return model.FlagYes
	}
	return model.FlagNo
}

// testType joins the category key spans of the test-type cell, falling back
// to the cell's full text.
func testType(cell *goquery.Selection) string {
	var keys []string
	cell.Find("[class*='key']").Each(func(_ int, key *goquery.Selection) {
		if text := strings.TrimSpace(key.Text()); text != "" {
			keys = append(keys, text)
		}
	})
	if len(keys) > 0 {
		return strings.Join(keys, ", ")
	}
	return strings.TrimSpace(cell.Text())
}

// extractFromLink builds a best-effort record from a bare product link when
// the listing table is absent. Fields it cannot locate are marked Unknown.
func extractFromLink(link *goquery.Selection, siteBase string) model.Product {
	p := model.Product{
		Title:         strings.TrimSpace(link.Text()),
		RemoteTesting: model.FlagUnknown,
		AdaptiveIRT:   model.FlagUnknown,
		TestType:      model.FlagUnknown,
	}
	if href, ok := link.Attr("href"); ok {
		p.ProductURL = absoluteURL(href, siteBase)
	}

	parent := link.Closest("div, tr")
	if parent.Length() == 0 {
		return p
	}

	text := parent.Text()
	if containsFold(text, "remote") || hasClassSubstring(parent, "remote") {
		p.RemoteTesting = model.FlagYes
	}
	if containsFold(text, "adaptive") || containsFold(text, "irt") || hasClassSubstring(parent, "adaptive") {
		p.AdaptiveIRT = model.FlagYes
	}
	if tt := parent.Find("[class*='test']").First(); tt.Length() > 0 {
		if s := strings.TrimSpace(tt.Text()); s != "" {
			p.TestType = s
		}
	}

	return p
}

// hasNextLink inspects the pagination controls. Absent controls count as a
// possible next page; the scraper's heuristics take over.
func hasNextLink(doc *goquery.Document) bool {
	pagination := doc.Find(".pagination").First()
	if pagination.Length() == 0 {
		pagination = doc.Find("div[class*='pag']").First()
	}
	if pagination.Length() == 0 {
		return true
	}

	if pagination.Find("a.next").Length() > 0 {
		return true
	}
	next := pagination.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return nextTextRe.MatchString(a.Text())
	})
	return next.Length() > 0
}

func absoluteURL(href, siteBase string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimSuffix(siteBase, "/") + href
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

func hasClassSubstring(sel *goquery.Selection, substr string) bool {
	cls, _ := sel.Attr("class")
	return strings.Contains(strings.ToLower(cls), substr)
}
