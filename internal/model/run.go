package model

import "time"

// RunStatus tracks the lifecycle of a scrape run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// ScrapeRun records one invocation of the catalog scraper.
type ScrapeRun struct {
	ID          string     `json:"id"`
	Status      RunStatus  `json:"status"`
	Pages       int        `json:"pages"`
	Products    int        `json:"products"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
