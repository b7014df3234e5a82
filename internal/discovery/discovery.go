// Package discovery collects new business candidates from the map directory,
// filtering out companies already processed in this or prior runs.
package discovery

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/identity"
	"github.com/sells-group/leadscout/internal/ledger"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/render"
)

// Source is the directory the stage discovers candidates from.
type Source interface {
	Search(ctx context.Context, query, location string) error
	LoadMore(ctx context.Context) error
	Items(ctx context.Context) ([]model.Candidate, error)
	// Detail returns the candidate merged with website/phone/address. On
	// error the input candidate is returned so partial records survive.
	Detail(ctx context.Context, c model.Candidate) (model.Candidate, error)
}

// Stats counts per-run discovery outcomes.
type Stats struct {
	Raw            int
	SkippedHistory int
	SkippedInRun   int
	Kept           int
	DetailErrors   int
	ScrollAttempts int
}

// Stage runs the scroll/extract/filter loop. One instance per run; not safe
// for concurrent use.
type Stage struct {
	source  Source
	ledger  *ledger.Ledger
	cfg     config.DiscoveryConfig
	limiter *rate.Limiter
}

// New creates a discovery Stage.
func New(source Source, led *ledger.Ledger, cfg config.DiscoveryConfig) *Stage {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Stage{
		source:  source,
		ledger:  led,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Run discovers up to want new candidates. Returning fewer than want —
// including zero — is a valid outcome; only a failed search itself is fatal.
func (s *Stage) Run(ctx context.Context, query, location string, want int) ([]model.Candidate, *Stats, error) {
	stats := &Stats{}
	log := zap.L().With(zap.String("query", query), zap.String("location", location))

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, stats, eris.Wrap(err, "discovery: wait limiter")
	}
	if err := s.source.Search(ctx, query, location); err != nil {
		return nil, stats, eris.Wrap(err, "discovery: search")
	}
	if err := settle(ctx, s.cfg.SearchSettleMs); err != nil {
		return nil, stats, err
	}

	items, err := s.scroll(ctx, want, stats, log)
	if err != nil {
		return nil, stats, err
	}
	stats.Raw = len(items)
	log.Info("discovery: extracted businesses", zap.Int("count", len(items)))

	kept, err := s.filter(ctx, items, want, stats, log)
	if err != nil {
		return nil, stats, err
	}
	stats.Kept = len(kept)

	log.Info("discovery: done",
		zap.Int("new", stats.Kept),
		zap.Int("skipped_history", stats.SkippedHistory),
		zap.Int("skipped_in_run", stats.SkippedInRun),
	)
	return kept, stats, nil
}

// scroll triggers load-more on the feed until the raw item count reaches the
// over-fetch target or the attempt budget runs out. The over-fetch factor
// compensates for items later dropped as duplicates.
func (s *Stage) scroll(ctx context.Context, want int, stats *Stats, log *zap.Logger) ([]model.Candidate, error) {
	target := want * s.cfg.OverfetchFactor
	if target <= 0 {
		target = want
	}

	var items []model.Candidate
	for stats.ScrollAttempts < s.cfg.MaxScrollAttempts && len(items) < target {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "discovery: wait limiter")
		}
		if err := s.source.LoadMore(ctx); err != nil {
			if eris.Is(err, render.ErrScrollUnsupported) {
				log.Debug("discovery: renderer cannot scroll, using initial feed")
				break
			}
			// A single failed scroll is not fatal; the feed may still grow.
			log.Warn("discovery: scroll failed", zap.Error(err))
		}
		if err := settle(ctx, s.cfg.ScrollSettleMs); err != nil {
			return nil, err
		}
		stats.ScrollAttempts++

		extracted, err := s.source.Items(ctx)
		if err != nil {
			log.Warn("discovery: extract failed", zap.Error(err))
			continue
		}
		items = extracted

		if stats.ScrollAttempts%3 == 0 {
			log.Info("discovery: loaded items",
				zap.Int("count", len(items)),
				zap.Int("scroll", stats.ScrollAttempts),
				zap.Int("budget", s.cfg.MaxScrollAttempts),
			)
		}
	}

	if items == nil {
		extracted, err := s.source.Items(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "discovery: extract")
		}
		items = extracted
	}
	return items, nil
}

// filter walks items in source order, skipping cross-run and in-run
// duplicates and fetching detail for the rest. A detail-fetch failure keeps
// the candidate with whatever fields were gathered.
func (s *Stage) filter(ctx context.Context, items []model.Candidate, want int, stats *Stats, log *zap.Logger) ([]model.Candidate, error) {
	seen := make(map[string]struct{}, len(items))
	var kept []model.Candidate

	for _, c := range items {
		if len(kept) >= want {
			break
		}

		fp := identity.Fingerprint(c)
		if s.ledger.Contains(fp) {
			stats.SkippedHistory++
			log.Info("discovery: skipping already scraped company", zap.String("name", c.Name))
			continue
		}
		if _, ok := seen[fp]; ok {
			stats.SkippedInRun++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "discovery: wait limiter")
		}
		merged, err := s.source.Detail(ctx, c)
		if err != nil {
			stats.DetailErrors++
			log.Warn("discovery: detail fetch failed, keeping partial record",
				zap.String("name", c.Name),
				zap.Error(err),
			)
		}
		if err := settle(ctx, s.cfg.DetailSettleMs); err != nil {
			return nil, err
		}

		kept = append(kept, merged)
		seen[fp] = struct{}{}
		log.Info("discovery: kept candidate",
			zap.String("name", merged.Name),
			zap.Bool("website", merged.Website != ""),
		)
	}
	return kept, nil
}

// settle blocks for the configured delay, honoring cancellation. Fixed
// settle delays stand in for render-completion events.
func settle(ctx context.Context, ms int) error {
	if ms <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "discovery: cancelled")
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return nil
	}
}
