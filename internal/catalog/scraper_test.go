package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiretools/catalog-cli/internal/config"
	"github.com/hiretools/catalog-cli/internal/fetcher"
)

// catalogServer serves synthetic listing pages keyed by start offset.
// pageSizes[i] is the number of rows on page i; requests past the last
// entry get an empty listing.
func catalogServer(t *testing.T, pageSize int, pageSizes []int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		page := start / pageSize

		var rows []string
		if page < len(pageSizes) {
			for i := range pageSizes[page] {
				id := fmt.Sprintf("%d-%d", page, i)
				rows = append(rows, listingRow(id, "Assessment "+id, "/solutions/products/product-catalog/view/"+id+"/", true, false, "K"))
			}
		}
		fmt.Fprint(w, listingPage(rows, `<div class="pagination"><a class="next" href="#">Next</a></div>`))
	}))
}

func newTestScraper(t *testing.T, baseURL string, maxPages, pageSize int) *Scraper {
	t.Helper()
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{MaxRetries: 1, Timeout: 5 * time.Second})
	s, err := NewScraper(f, config.ScrapeConfig{
		BaseURL:     baseURL,
		ProductType: 2,
		PageSize:    pageSize,
		MaxPages:    maxPages,
	})
	require.NoError(t, err)
	return s
}

func TestScraper_StopsOnEmptyPage(t *testing.T) {
	srv := catalogServer(t, 6, []int{6, 6})
	defer srv.Close()

	s := newTestScraper(t, srv.URL, 10, 6)
	products, stats, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, products, 12)
	assert.Equal(t, 3, stats.Pages, "the empty third page is fetched and ends the run")
	assert.Equal(t, 12, stats.Products)
}

func TestScraper_StopsAtMaxPages(t *testing.T) {
	srv := catalogServer(t, 6, []int{6, 6, 6, 6, 6})
	defer srv.Close()

	s := newTestScraper(t, srv.URL, 2, 6)
	products, stats, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, products, 12)
	assert.Equal(t, 2, stats.Pages)
}

func TestScraper_StopsOnShortPage(t *testing.T) {
	srv := catalogServer(t, 6, []int{6, 3, 6})
	defer srv.Close()

	s := newTestScraper(t, srv.URL, 10, 6)
	products, stats, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, products, 9, "short second page ends the run")
	assert.Equal(t, 2, stats.Pages)
}

func TestScraper_StopsWithoutNextLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rows []string
		for i := range 6 {
			rows = append(rows, listingRow(strconv.Itoa(i), "T", "/x", false, false))
		}
		fmt.Fprint(w, listingPage(rows, `<div class="pagination"><a href="#">Previous</a></div>`))
	}))
	defer srv.Close()

	s := newTestScraper(t, srv.URL, 10, 6)
	products, stats, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, products, 6)
	assert.Equal(t, 1, stats.Pages)
}

func TestScraper_PartialResultsOnFetchError(t *testing.T) {
	var served int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		if served > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var rows []string
		for i := range 6 {
			rows = append(rows, listingRow(strconv.Itoa(i), "T", "/x", false, false))
		}
		fmt.Fprint(w, listingPage(rows, `<div class="pagination"><a class="next" href="#">Next</a></div>`))
	}))
	defer srv.Close()

	s := newTestScraper(t, srv.URL, 10, 6)
	products, stats, err := s.Run(context.Background())
	require.Error(t, err)

	assert.Len(t, products, 6, "records collected before the failure survive")
	assert.Equal(t, 1, stats.Pages)
}

func TestScraper_PageURL(t *testing.T) {
	s := newTestScraper(t, "https://www.shl.com/solutions/products/product-catalog/", 20, 10)
	assert.Equal(t,
		"https://www.shl.com/solutions/products/product-catalog/?start=10&type=2",
		s.pageURL(10),
	)
}

func TestNewScraper_BadBaseURL(t *testing.T) {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	_, err := NewScraper(f, config.ScrapeConfig{BaseURL: "not-a-url"})
	assert.Error(t, err)
}
