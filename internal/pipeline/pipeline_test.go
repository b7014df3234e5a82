package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/discovery"
	"github.com/sells-group/leadscout/internal/ledger"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/store"
)

const historyKey = "SCRAPED_COMPANIES_HISTORY"

type fakeDiscoverer struct {
	candidates []model.Candidate
	stats      discovery.Stats
	err        error
}

func (f *fakeDiscoverer) Run(context.Context, string, string, int) ([]model.Candidate, *discovery.Stats, error) {
	if f.err != nil {
		return nil, &f.stats, f.err
	}
	return f.candidates, &f.stats, nil
}

// fakeEnricher assigns a fixed industry per website and tracks in-run
// website repeats the way the real enricher does.
type fakeEnricher struct {
	industries map[string]string
	processed  map[string]struct{}
}

func newFakeEnricher(industries map[string]string) *fakeEnricher {
	return &fakeEnricher{industries: industries, processed: make(map[string]struct{})}
}

func (f *fakeEnricher) BasicLead(c model.Candidate) *model.Lead {
	return &model.Lead{
		CompanyName: c.Name,
		WebsiteURL:  c.Website,
		Phone:       c.Phone,
		Location:    c.Location(),
		ScrapedAt:   time.Now().UTC(),
	}
}

func (f *fakeEnricher) Enrich(_ context.Context, c model.Candidate) *model.Lead {
	if _, done := f.processed[c.Website]; done {
		return nil
	}
	f.processed[c.Website] = struct{}{}

	lead := f.BasicLead(c)
	lead.Industry = f.industries[c.Website]
	lead.Email = "info@" + c.Name + ".test"
	return lead
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func newTestPipeline(t *testing.T, st store.Store, disc Discoverer, enr Enricher, search config.SearchConfig) *Pipeline {
	t.Helper()
	led := ledger.New(st, historyKey, true)
	return New(st, led, disc, enr, search, true)
}

func testSearch() config.SearchConfig {
	return config.SearchConfig{Query: "tech companies", Location: "New York", MaxResults: 10}
}

func TestExecuteHappyPath(t *testing.T) {
	st := newTestStore(t)
	disc := &fakeDiscoverer{
		candidates: []model.Candidate{
			{Name: "Acme Corp", Website: "https://acme.com", Address: "1 Main St"},
			{Name: "Corner Cafe", Address: "2 Side St", Phone: "(212) 555-0100"},
		},
		stats: discovery.Stats{Raw: 4, SkippedHistory: 1, SkippedInRun: 1, Kept: 2},
	}
	enr := newFakeEnricher(map[string]string{"https://acme.com": "Technology"})
	p := newTestPipeline(t, st, disc, enr, testSearch())

	run, err := p.Execute(context.Background())
	require.NoError(t, err)
	require.NotNil(t, run)

	got, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 4, got.Summary.Discovered)
	assert.Equal(t, 1, got.Summary.SkippedHistory)
	assert.Equal(t, 2, got.Summary.Emitted)
	assert.Equal(t, 1, got.Summary.BasicLeads)
	assert.Empty(t, got.Summary.Error)

	leads, err := st.ListLeads(context.Background(), store.LeadFilter{RunID: run.ID})
	require.NoError(t, err)
	require.Len(t, leads, 2)

	// Every lead is scored, including the basic one.
	for _, lead := range leads {
		assert.Greater(t, lead.LeadScore, 0, lead.CompanyName)
	}
}

func TestExecuteCommitsBothFingerprints(t *testing.T) {
	st := newTestStore(t)
	disc := &fakeDiscoverer{
		candidates: []model.Candidate{
			{Name: "Acme Corp", Website: "https://www.acme.com", Address: "1 Main St"},
		},
		stats: discovery.Stats{Raw: 1, Kept: 1},
	}
	p := newTestPipeline(t, st, disc, newFakeEnricher(nil), testSearch())

	_, err := p.Execute(context.Background())
	require.NoError(t, err)

	fps, ok, err := st.GetHistory(context.Background(), historyKey)
	require.NoError(t, err)
	require.True(t, ok)
	// Website form and name+address form are both remembered.
	assert.Equal(t, []string{"acme.com", "acme_corp_1_main_st"}, fps)
}

func TestExecuteDiscoveryFailure(t *testing.T) {
	st := newTestStore(t)
	disc := &fakeDiscoverer{err: eris.New("search page did not load")}
	p := newTestPipeline(t, st, disc, newFakeEnricher(nil), testSearch())

	run, err := p.Execute(context.Background())
	require.Error(t, err)
	require.NotNil(t, run)

	got, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	require.NotNil(t, got.Summary)
	assert.Contains(t, got.Summary.Error, "search page did not load")

	// The failed run still persisted the (empty) history set.
	_, ok, err := st.GetHistory(context.Background(), historyKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExecuteNoNewCompanies(t *testing.T) {
	st := newTestStore(t)
	disc := &fakeDiscoverer{stats: discovery.Stats{Raw: 5, SkippedHistory: 5}}
	p := newTestPipeline(t, st, disc, newFakeEnricher(nil), testSearch())

	run, err := p.Execute(context.Background())
	require.NoError(t, err)

	got, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, 0, got.Summary.Emitted)
	assert.Equal(t, 5, got.Summary.SkippedHistory)
}

func TestExecuteIndustryFilter(t *testing.T) {
	st := newTestStore(t)
	disc := &fakeDiscoverer{
		candidates: []model.Candidate{
			{Name: "Acme Corp", Website: "https://acme.com", Address: "1 Main St"},
			{Name: "Bistro", Website: "https://bistro.com", Address: "2 Side St"},
		},
		stats: discovery.Stats{Raw: 2, Kept: 2},
	}
	enr := newFakeEnricher(map[string]string{
		"https://acme.com":   "Technology",
		"https://bistro.com": "Restaurant",
	})
	search := testSearch()
	search.TargetIndustry = "technology"
	p := newTestPipeline(t, st, disc, enr, search)

	run, err := p.Execute(context.Background())
	require.NoError(t, err)

	got, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Summary.Emitted)
	assert.Equal(t, 1, got.Summary.FilteredIndustry)

	leads, err := st.ListLeads(context.Background(), store.LeadFilter{RunID: run.ID})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Acme Corp", leads[0].CompanyName)

	// The filtered company is remembered so future runs skip it.
	fps, _, err := st.GetHistory(context.Background(), historyKey)
	require.NoError(t, err)
	assert.Contains(t, fps, "bistro.com")
}

func TestExecuteRepeatWebsiteSkipped(t *testing.T) {
	st := newTestStore(t)
	disc := &fakeDiscoverer{
		candidates: []model.Candidate{
			{Name: "Acme Corp", Website: "https://acme.com", Address: "1 Main St"},
			{Name: "Acme Downtown", Website: "https://acme.com", Address: "9 Other St"},
		},
		stats: discovery.Stats{Raw: 2, Kept: 2},
	}
	p := newTestPipeline(t, st, disc, newFakeEnricher(nil), testSearch())

	run, err := p.Execute(context.Background())
	require.NoError(t, err)

	got, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Summary.Emitted)
	assert.Equal(t, 1, got.Summary.SkippedInRun)

	// Both listings are remembered even though only one lead was emitted.
	fps, _, err := st.GetHistory(context.Background(), historyKey)
	require.NoError(t, err)
	assert.Contains(t, fps, "acme_corp_1_main_st")
	assert.Contains(t, fps, "acme_downtown_9_other_st")
}

func TestExecuteEnrichDisabledUsesBasicLeads(t *testing.T) {
	st := newTestStore(t)
	disc := &fakeDiscoverer{
		candidates: []model.Candidate{
			{Name: "Acme Corp", Website: "https://acme.com", Address: "1 Main St"},
		},
		stats: discovery.Stats{Raw: 1, Kept: 1},
	}
	led := ledger.New(st, historyKey, true)
	p := New(st, led, disc, newFakeEnricher(nil), testSearch(), false)

	run, err := p.Execute(context.Background())
	require.NoError(t, err)

	got, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Summary.BasicLeads)
	assert.Equal(t, 1, got.Summary.Emitted)

	leads, err := st.ListLeads(context.Background(), store.LeadFilter{RunID: run.ID})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "https://acme.com", leads[0].WebsiteURL)
	assert.Empty(t, leads[0].Industry)
}

type failingLeadStore struct {
	store.Store
}

func (f *failingLeadStore) AppendLead(context.Context, string, *model.Lead) error {
	return eris.New("disk full")
}

func TestExecuteAppendLeadFailureIsFatal(t *testing.T) {
	st := &failingLeadStore{Store: newTestStore(t)}
	disc := &fakeDiscoverer{
		candidates: []model.Candidate{
			{Name: "Acme Corp", Website: "https://acme.com", Address: "1 Main St"},
		},
		stats: discovery.Stats{Raw: 1, Kept: 1},
	}
	led := ledger.New(st, historyKey, true)
	p := New(st, led, disc, newFakeEnricher(nil), testSearch(), true)

	run, err := p.Execute(context.Background())
	require.Error(t, err)
	require.NotNil(t, run)

	got, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Contains(t, got.Summary.Error, "disk full")
}
