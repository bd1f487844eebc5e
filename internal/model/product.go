// Package model defines the catalog record types shared by the scraper,
// store, exporters, and recommender.
package model

// Flag values for the boolean-like catalog columns.
const (
	FlagYes     = "Yes"
	FlagNo      = "No"
	FlagUnknown = "Unknown"
)

// Product is one row of the scraped catalog listing.
type Product struct {
	CourseID      string `csv:"course_id" json:"course_id"`
	Title         string `csv:"title" json:"title"`
	ProductURL    string `csv:"product_url" json:"product_url"`
	RemoteTesting string `csv:"remote_testing" json:"remote_testing"`
	AdaptiveIRT   string `csv:"adaptive_irt" json:"adaptive_irt"`
	TestType      string `csv:"test_type" json:"test_type"`
}

// ProductDetails holds the fields scraped from a product's detail page.
type ProductDetails struct {
	Description           string `csv:"description" json:"description"`
	JobLevels             string `csv:"job_levels" json:"job_levels"`
	Languages             string `csv:"languages" json:"languages"`
	AssessmentLength      string `csv:"assessment_length" json:"assessment_length"`
	CompletionTimeMinutes string `csv:"completion_time_minutes" json:"completion_time_minutes"`
	FullTestType          string `csv:"full_test_type" json:"full_test_type"`
}

// EnrichedProduct is a catalog row plus its detail-page fields. The embedded
// structs flatten into a single CSV row via csvutil.
type EnrichedProduct struct {
	Product
	ProductDetails
}

// Course is one row of the recommender dataset. It is the enriched product
// shape reduced to the columns the recommender consumes.
type Course struct {
	CourseID    string `csv:"course_id" json:"course_id"`
	Title       string `csv:"title" json:"title"`
	ProductURL  string `csv:"product_url" json:"product_url"`
	TestType    string `csv:"test_type" json:"test_type"`
	JobLevels   string `csv:"job_levels" json:"job_levels"`
	Languages   string `csv:"languages" json:"languages"`
	Description string `csv:"description" json:"description"`
}

// CombinedText concatenates the descriptive fields of a course into the
// document used for similarity ranking.
func (c Course) CombinedText() string {
	return c.Title + " " + c.TestType + " " + c.JobLevels + " " + c.Languages + " " + c.Description
}
