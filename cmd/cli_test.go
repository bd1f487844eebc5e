package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiretools/catalog-cli/internal/model"
)

func TestLoadListingCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.csv")
	content := `course_id,title,product_url,remote_testing,adaptive_irt,test_type
101,Verify Numerical,https://x/1,Yes,No,A
102,OPQ,https://x/2,Yes,Yes,P
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	products, err := loadListingCSV(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Verify Numerical", products[0].Title)
	assert.Equal(t, "P", products[1].TestType)
}

func TestLoadListingCSV_Missing(t *testing.T) {
	_, err := loadListingCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open listing")
}

func TestLoadListingCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("course_id,title,product_url,remote_testing,adaptive_irt,test_type\n"), 0o644))

	_, err := loadListingCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

func TestFormatRecommendations(t *testing.T) {
	var sb strings.Builder
	formatRecommendations(&sb, &model.RecommendationResponse{
		Organization: "Acme",
		Matched:      4,
		Recommendations: []model.Recommendation{
			{CourseID: "1", Title: "Verify Numerical Reasoning", Score: 0.8123, ProductURL: "https://x/1"},
			{CourseID: "2", Title: strings.Repeat("Long Title ", 6), Score: 0.75, ProductURL: "https://x/2"},
		},
	})

	out := sb.String()
	assert.Contains(t, out, "Matched 4 course(s)")
	assert.Contains(t, out, "Verify Numerical Reasoning")
	assert.Contains(t, out, "0.812")
	assert.Contains(t, out, "...", "long titles are truncated")
}

func TestFormatRunsList(t *testing.T) {
	started := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	completed := started.Add(90 * time.Second)

	var sb strings.Builder
	formatRunsList(&sb, []model.ScrapeRun{
		{ID: "0123456789abcdef", Status: model.RunStatusComplete, Pages: 3, Products: 24, StartedAt: started, CompletedAt: &completed},
		{ID: "fedcba", Status: model.RunStatusRunning, StartedAt: started},
	})

	out := sb.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef", "IDs are truncated")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "1m30s")
	assert.Contains(t, out, "running")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("123456789"))
	assert.Equal(t, "short", truncateID("short"))
}
