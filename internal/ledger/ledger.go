// Package ledger maintains the durable set of company fingerprints already
// processed by earlier runs.
package ledger

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// HistoryStore is the durable key/value contract the ledger needs: one key
// holding the full fingerprint list.
type HistoryStore interface {
	GetHistory(ctx context.Context, key string) ([]string, bool, error)
	SetHistory(ctx context.Context, key string, fingerprints []string) error
}

// Ledger is the cross-run dedup set. Loaded once at run start, mutated in
// memory as leads are committed, persisted once at run end. Not safe for
// concurrent use; the pipeline is single-threaded.
type Ledger struct {
	store   HistoryStore
	key     string
	enabled bool
	seen    map[string]struct{}
}

// New creates a Ledger backed by the given store key. A disabled ledger
// never matches and never persists.
func New(store HistoryStore, key string, enabled bool) *Ledger {
	return &Ledger{
		store:   store,
		key:     key,
		enabled: enabled,
		seen:    make(map[string]struct{}),
	}
}

// Load reads the history key. A missing or malformed value falls back to an
// empty set with a warning; loading never fails the run.
func (l *Ledger) Load(ctx context.Context) {
	if !l.enabled {
		return
	}
	fingerprints, ok, err := l.store.GetHistory(ctx, l.key)
	if err != nil {
		zap.L().Warn("ledger: could not load history, starting fresh",
			zap.String("key", l.key),
			zap.Error(err),
		)
		return
	}
	if !ok {
		zap.L().Info("ledger: no previous history found, starting fresh",
			zap.String("key", l.key),
		)
		return
	}
	for _, fp := range fingerprints {
		l.seen[fp] = struct{}{}
	}
	zap.L().Info("ledger: loaded previously scraped companies",
		zap.String("key", l.key),
		zap.Int("count", len(l.seen)),
	)
}

// Contains reports whether the fingerprint was committed by this or a prior
// run. Always false when disabled.
func (l *Ledger) Contains(fp string) bool {
	if !l.enabled {
		return false
	}
	_, ok := l.seen[fp]
	return ok
}

// Mark records a fingerprint as processed. Marks accumulate in memory only;
// Persist writes them out.
func (l *Ledger) Mark(fp string) {
	if !l.enabled {
		return
	}
	l.seen[fp] = struct{}{}
}

// Len returns the number of fingerprints currently tracked.
func (l *Ledger) Len() int {
	return len(l.seen)
}

// Persist overwrites the history key with the full current set. Called
// exactly once at run end, on both clean and failed exits.
func (l *Ledger) Persist(ctx context.Context) error {
	if !l.enabled {
		return nil
	}
	fingerprints := make([]string, 0, len(l.seen))
	for fp := range l.seen {
		fingerprints = append(fingerprints, fp)
	}
	// Stable output keeps the stored value diffable between runs.
	sort.Strings(fingerprints)

	if err := l.store.SetHistory(ctx, l.key, fingerprints); err != nil {
		return eris.Wrap(err, "ledger: persist history")
	}
	zap.L().Info("ledger: saved company history",
		zap.String("key", l.key),
		zap.Int("count", len(fingerprints)),
	)
	return nil
}
