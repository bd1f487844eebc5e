package recommend

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/hiretools/catalog-cli/internal/model"
)

// ErrNoMatches reports that no course satisfied every selected filter.
var ErrNoMatches = eris.New("recommend: no matching courses")

// Engine answers recommendation requests over a fixed course dataset.
type Engine struct {
	courses []model.Course
	topN    int
	maxDist int

	testTypes []string
	jobLevels []string
	languages []string
}

// NewEngine builds an Engine over the given courses. topN caps result
// counts; maxDist bounds filter-value snapping.
func NewEngine(courses []model.Course, topN, maxDist int) *Engine {
	if topN <= 0 {
		topN = 3
	}
	return &Engine{
		courses: courses,
		topN:    topN,
		maxDist: maxDist,
		testTypes: CanonicalValues(courses, func(c model.Course) string {
			return c.TestType
		}),
		jobLevels: CanonicalValues(courses, func(c model.Course) string {
			return c.JobLevels
		}),
		languages: CanonicalValues(courses, func(c model.Course) string {
			return c.Languages
		}),
	}
}

// Len reports the dataset size.
func (e *Engine) Len() int { return len(e.courses) }

// TestTypes lists the canonical test-type values, for UI dropdowns.
func (e *Engine) TestTypes() []string { return e.testTypes }

// JobLevels lists the canonical job-level values.
func (e *Engine) JobLevels() []string { return e.jobLevels }

// Languages lists the canonical language values.
func (e *Engine) Languages() []string { return e.languages }

// Recommend filters the dataset on the request's non-empty categorical
// fields and returns at most topN courses. Sets larger than topN are ranked
// by mean TF-IDF cosine similarity; smaller sets keep dataset order.
// Returns ErrNoMatches when the filter eliminates every course.
func (e *Engine) Recommend(req model.RecommendationRequest) (*model.RecommendationResponse, error) {
	testType := Snap(req.TestType, e.testTypes, e.maxDist)
	jobLevel := Snap(req.JobLevel, e.jobLevels, e.maxDist)
	language := Snap(req.Language, e.languages, e.maxDist)

	var candidates []model.Course
	for _, c := range e.courses {
		if !fieldMatches(c.TestType, testType) {
			continue
		}
		if !fieldMatches(c.JobLevels, jobLevel) {
			continue
		}
		if !fieldMatches(c.Languages, language) {
			continue
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return nil, ErrNoMatches
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.CombinedText()
	}
	scores := meanSimilarities(vectorize(texts))

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	if len(candidates) > e.topN {
		order = topIndices(scores, e.topN)
	}

	recs := make([]model.Recommendation, 0, len(order))
	for _, i := range order {
		recs = append(recs, model.Recommendation{
			CourseID:    candidates[i].CourseID,
			Title:       candidates[i].Title,
			Description: candidates[i].Description,
			ProductURL:  candidates[i].ProductURL,
			Score:       scores[i],
		})
	}

	return &model.RecommendationResponse{
		Organization:    Clean(req.Organization),
		Matched:         len(candidates),
		Recommendations: recs,
	}, nil
}

// fieldMatches applies one categorical filter: empty filter matches
// everything, otherwise the row value must match case-insensitively.
func fieldMatches(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.EqualFold(Clean(value), filter)
}
