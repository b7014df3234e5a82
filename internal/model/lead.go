// Package model defines the records shared across the lead pipeline.
package model

import "time"

// Candidate is a business discovered on the map directory but not yet
// enriched. Exists only for the duration of a run.
type Candidate struct {
	Name        string `json:"name"`
	Rating      string `json:"rating,omitempty"`
	Address     string `json:"address,omitempty"`
	FullAddress string `json:"full_address,omitempty"`
	DetailURL   string `json:"detail_url,omitempty"`
	Website     string `json:"website,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Location returns the best available address string for the candidate.
func (c Candidate) Location() string {
	if c.Address != "" {
		return c.Address
	}
	return c.FullAddress
}

// Lead is the final enriched, scored output record. Immutable once handed
// to the orchestrator.
type Lead struct {
	CompanyName       string `json:"company_name"`
	WebsiteURL        string `json:"website_url,omitempty"`
	Industry          string `json:"industry,omitempty"`
	Location          string `json:"location,omitempty"`
	DecisionMakerName string `json:"decision_maker_name,omitempty"`
	DecisionMakerRole string `json:"decision_maker_role,omitempty"`

	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`

	// QualityScore is nil when no website was evaluated.
	QualityScore  *int   `json:"website_quality_score,omitempty"`
	QualityRating string `json:"website_quality_rating,omitempty"`
	NeedsBranding bool   `json:"needs_branding"`

	LeadScore int `json:"lead_score"`

	Source         string    `json:"source"`
	SearchQuery    string    `json:"search_query"`
	SearchLocation string    `json:"search_location"`
	ScrapedAt      time.Time `json:"scraped_at"`

	// Errors collects non-fatal enrichment failures, in occurrence order.
	Errors []string `json:"errors,omitempty"`
}

// RunStatus represents the current state of a lead-finding run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusDiscovering RunStatus = "discovering"
	RunStatusEnriching   RunStatus = "enriching"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// Run represents a single execution of the discovery/enrichment pipeline.
type Run struct {
	ID        string      `json:"id"`
	Query     string      `json:"query"`
	Location  string      `json:"location"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunSummary holds the final counters of a run.
type RunSummary struct {
	Discovered       int    `json:"discovered"`
	SkippedHistory   int    `json:"skipped_history"`
	SkippedInRun     int    `json:"skipped_in_run"`
	Emitted          int    `json:"emitted"`
	FilteredIndustry int    `json:"filtered_industry"`
	BasicLeads       int    `json:"basic_leads"`
	HistorySize      int    `json:"history_size"`
	DurationMs       int64  `json:"duration_ms"`
	Error            string `json:"error,omitempty"`
}
