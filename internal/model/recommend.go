package model

// RecommendationRequest carries the user-selected filter values.
// Empty categorical fields mean "no filter on that column".
type RecommendationRequest struct {
	Organization string `json:"organization_name"`
	TestType     string `json:"test_type"`
	JobLevel     string `json:"job_level"`
	Language     string `json:"language"`
}

// Recommendation is one ranked result.
type Recommendation struct {
	CourseID    string  `json:"course_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ProductURL  string  `json:"product_url"`
	Score       float64 `json:"score"`
}

// RecommendationResponse is the API payload returned for a request.
type RecommendationResponse struct {
	Organization    string           `json:"organization"`
	Matched         int              `json:"matched"`
	Recommendations []Recommendation `json:"recommendations"`
}
