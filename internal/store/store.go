package store

import (
	"context"

	"github.com/sells-group/leadscout/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	RunID    string `json:"run_id,omitempty"`
	Industry string `json:"industry,omitempty"`
	MinScore int    `json:"min_score,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the lead pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, query, location string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.RunSummary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Leads
	AppendLead(ctx context.Context, runID string, lead *model.Lead) error
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)

	// Dedup history. GetHistory reports ok=false when the key has never
	// been written.
	GetHistory(ctx context.Context, key string) ([]string, bool, error)
	SetHistory(ctx context.Context, key string, fingerprints []string) error
	ClearHistory(ctx context.Context, key string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
