package models

import "time"

// Quote represents a single quote block parsed from a listing page.
type Quote struct {
	Text       string    `json:"text"`
	Author     string    `json:"author"`
	Tags       []string  `json:"tags"`
	SourceURL  string    `json:"source_url,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
	ScrapedAt  time.Time `json:"scraped_at"`
}

// RunStatus describes the outcome of a scrape run.
type RunStatus string

const (
	RunSucceeded RunStatus = "success"
	RunFailed    RunStatus = "failed"
)

// RunReport summarizes one scrape run for the history table.
type RunReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Pages      int       `json:"pages"`
	Scraped    int       `json:"scraped"`
	Inserted   int       `json:"inserted"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
}

// Stats holds aggregate figures for the stats command.
type Stats struct {
	TotalQuotes  int `json:"total_quotes"`
	TotalAuthors int `json:"total_authors"`
	TotalRuns    int `json:"total_runs"`
}

// AuthorCount pairs an author with the number of stored quotes.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}
