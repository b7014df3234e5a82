// Package pipeline orchestrates a full lead-finding run: discovery on the
// map directory, per-site enrichment, scoring, and persistence. Stages run
// strictly in sequence; nothing here is concurrent.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/discovery"
	"github.com/sells-group/leadscout/internal/identity"
	"github.com/sells-group/leadscout/internal/ledger"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/scorer"
	"github.com/sells-group/leadscout/internal/store"
)

// Discoverer yields new candidates from the map directory.
type Discoverer interface {
	Run(ctx context.Context, query, location string, want int) ([]model.Candidate, *discovery.Stats, error)
}

// Enricher turns candidates into leads. Enrich returns nil for a website
// already processed this run.
type Enricher interface {
	Enrich(ctx context.Context, c model.Candidate) *model.Lead
	BasicLead(c model.Candidate) *model.Lead
}

// Pipeline wires the run stages together.
type Pipeline struct {
	store    store.Store
	ledger   *ledger.Ledger
	disc     Discoverer
	enricher Enricher

	search        config.SearchConfig
	enrichEnabled bool
}

// New creates a Pipeline.
func New(st store.Store, led *ledger.Ledger, disc Discoverer, enricher Enricher, search config.SearchConfig, enrichEnabled bool) *Pipeline {
	return &Pipeline{
		store:         st,
		ledger:        led,
		disc:          disc,
		enricher:      enricher,
		search:        search,
		enrichEnabled: enrichEnabled,
	}
}

// Execute performs one full run and records it in the store. The returned
// run is non-nil whenever a run record was created, even on failure.
func (p *Pipeline) Execute(ctx context.Context) (*model.Run, error) {
	run, err := p.store.CreateRun(ctx, p.search.Query, p.search.Location)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	start := time.Now()
	summary := &model.RunSummary{}
	log := zap.L().With(zap.String("run_id", run.ID))
	log.Info("pipeline: starting run",
		zap.String("query", p.search.Query),
		zap.String("location", p.search.Location),
		zap.Int("max_results", p.search.MaxResults),
	)

	p.ledger.Load(ctx)

	if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusDiscovering); err != nil {
		return run, p.finish(ctx, run, summary, start, eris.Wrap(err, "pipeline: mark discovering"))
	}

	candidates, stats, err := p.disc.Run(ctx, p.search.Query, p.search.Location, p.search.MaxResults)
	if err != nil {
		return run, p.finish(ctx, run, summary, start, eris.Wrap(err, "pipeline: discovery"))
	}
	summary.Discovered = stats.Raw
	summary.SkippedHistory = stats.SkippedHistory
	summary.SkippedInRun = stats.SkippedInRun

	if len(candidates) == 0 {
		log.Warn("pipeline: no new companies found; every discovered business was already scraped. " +
			"Increase max results, or change the query or location to reach new companies")
		return run, p.finish(ctx, run, summary, start, nil)
	}

	if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusEnriching); err != nil {
		return run, p.finish(ctx, run, summary, start, eris.Wrap(err, "pipeline: mark enriching"))
	}

	for _, c := range candidates {
		lead := p.leadFor(ctx, c, summary)
		if lead == nil {
			// Repeat website inside the run. Commit the fingerprints so the
			// duplicate listing stays suppressed in future runs too.
			summary.SkippedInRun++
			p.commit(c)
			continue
		}

		lead.LeadScore = scorer.Score(lead)

		if !p.industryMatches(lead) {
			summary.FilteredIndustry++
			// Filtered companies were still fully processed; remember them.
			p.commit(c)
			log.Info("pipeline: industry mismatch, lead dropped",
				zap.String("company", lead.CompanyName),
				zap.String("industry", lead.Industry),
				zap.String("target", p.search.TargetIndustry),
			)
			continue
		}

		if err := p.store.AppendLead(ctx, run.ID, lead); err != nil {
			return run, p.finish(ctx, run, summary, start, eris.Wrapf(err, "pipeline: append lead %s", lead.CompanyName))
		}
		p.commit(c)
		summary.Emitted++

		log.Info("pipeline: lead saved",
			zap.String("company", lead.CompanyName),
			zap.Int("score", lead.LeadScore),
			zap.String("industry", lead.Industry),
		)
	}

	return run, p.finish(ctx, run, summary, start, nil)
}

// leadFor enriches the candidate when possible, otherwise synthesizes a
// basic lead from discovery fields alone.
func (p *Pipeline) leadFor(ctx context.Context, c model.Candidate, summary *model.RunSummary) *model.Lead {
	if c.Website == "" || !p.enrichEnabled {
		summary.BasicLeads++
		return p.enricher.BasicLead(c)
	}
	return p.enricher.Enrich(ctx, c)
}

func (p *Pipeline) industryMatches(lead *model.Lead) bool {
	if p.search.TargetIndustry == "" {
		return true
	}
	return strings.EqualFold(lead.Industry, p.search.TargetIndustry)
}

// commit records the candidate in the dedup ledger under both identity
// forms, so a future run recognizes the company whether or not the
// directory exposes its website that day.
func (p *Pipeline) commit(c model.Candidate) {
	p.ledger.Mark(identity.Fingerprint(c))
	if c.Website != "" {
		noSite := c
		noSite.Website = ""
		p.ledger.Mark(identity.Fingerprint(noSite))
	}
}

// finish is the single exit path for a run: persist the ledger, complete
// the run record, and fold any errors together. Runs on success and failure
// alike so partial progress is never lost.
func (p *Pipeline) finish(ctx context.Context, run *model.Run, summary *model.RunSummary, start time.Time, runErr error) error {
	summary.HistorySize = p.ledger.Len()
	summary.DurationMs = time.Since(start).Milliseconds()

	status := model.RunStatusComplete
	if runErr != nil {
		status = model.RunStatusFailed
		summary.Error = runErr.Error()
	}

	if err := p.ledger.Persist(ctx); err != nil {
		zap.L().Error("pipeline: could not persist dedup history", zap.Error(err))
		if runErr == nil {
			runErr = err
			status = model.RunStatusFailed
			summary.Error = err.Error()
		}
	}

	if err := p.store.CompleteRun(ctx, run.ID, status, summary); err != nil {
		zap.L().Error("pipeline: could not complete run record", zap.Error(err))
		if runErr == nil {
			runErr = eris.Wrap(err, "pipeline: complete run")
		}
	}

	zap.L().Info("pipeline: run finished",
		zap.String("run_id", run.ID),
		zap.String("status", string(status)),
		zap.Int("discovered", summary.Discovered),
		zap.Int("emitted", summary.Emitted),
		zap.Int("basic_leads", summary.BasicLeads),
		zap.Int("skipped_history", summary.SkippedHistory),
		zap.Int("skipped_in_run", summary.SkippedInRun),
		zap.Int("filtered_industry", summary.FilteredIndustry),
		zap.Int("history_size", summary.HistorySize),
		zap.Int64("duration_ms", summary.DurationMs),
	)
	return runErr
}
