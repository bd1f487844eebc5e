// Package recommend filters the course dataset on categorical fields and
// ranks candidates by term-frequency text similarity.
package recommend

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hiretools/catalog-cli/internal/model"
)

var multiSpace = regexp.MustCompile(`\s{2,}`)

// Clean trims a field value and collapses internal whitespace. Dataset rows
// and request values both go through it so comparisons see the same shape.
func Clean(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// CanonicalValues returns the unique cleaned values of one categorical
// column, sorted with English collation for stable dropdown ordering.
func CanonicalValues(courses []model.Course, field func(model.Course) string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, c := range courses {
		v := Clean(field(c))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	collate.New(language.English).SortStrings(values)
	return values
}

// Snap maps a submitted filter value onto a canonical dataset value.
// A case-insensitive exact match wins outright; otherwise the single
// canonical value within maxDist edits is chosen. Ambiguous or distant
// inputs come back cleaned but unchanged, and fail the filter downstream.
func Snap(input string, canonical []string, maxDist int) string {
	in := Clean(input)
	if in == "" {
		return ""
	}

	lower := strings.ToLower(in)
	for _, c := range canonical {
		if strings.ToLower(c) == lower {
			return c
		}
	}

	if maxDist <= 0 {
		return in
	}

	best := ""
	bestDist := maxDist + 1
	unique := true
	for _, c := range canonical {
		d := matchr.Levenshtein(lower, strings.ToLower(c))
		switch {
		case d < bestDist:
			best, bestDist, unique = c, d, true
		case d == bestDist:
			unique = false
		}
	}
	if best != "" && unique {
		return best
	}
	return in
}
