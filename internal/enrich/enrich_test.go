package enrich

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

type fakeFetcher struct {
	pages   map[string]*Page
	err     error
	fetches int
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*Page, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.pages[rawURL]
	if !ok {
		return nil, eris.Errorf("no page for %s", rawURL)
	}
	return p, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

var testProv = Provenance{Source: "google-maps", Query: "tech companies", Location: "New York"}

const richHomeHTML = `<head>
	<meta name="viewport" content="width=device-width">
	<meta name="description" content="Custom software development">
</head>
<body class="flex-col">
	<img alt="Acme logo"><img><img><img><img>
	<a href="/contact">Contact</a>
	<a href="https://linkedin.com/company/acme">LinkedIn</a>
	<a href="https://facebook.com/acme">Facebook</a>
	<p>Reach us at info@acme.com or (212) 555-0100.</p>
	<p>Jane Doe, CEO</p>
</body>`

func richFetcher(t *testing.T) *fakeFetcher {
	t.Helper()
	return &fakeFetcher{pages: map[string]*Page{
		"https://acme.com": mustPage(t, "https://acme.com", richHomeHTML),
	}}
}

func TestEnrichFullPage(t *testing.T) {
	e := New(richFetcher(t), nil, testProv)

	lead := e.Enrich(context.Background(), model.Candidate{
		Name:    "Acme Corp",
		Website: "https://acme.com",
		Address: "123 Main St",
	})
	require.NotNil(t, lead)

	assert.Equal(t, "Acme Corp", lead.CompanyName)
	assert.Equal(t, "https://acme.com", lead.WebsiteURL)
	assert.Equal(t, "123 Main St", lead.Location)
	assert.Equal(t, "info@acme.com", lead.Email)
	assert.Equal(t, "(212) 555-0100", lead.Phone)
	assert.Equal(t, "https://linkedin.com/company/acme", lead.LinkedIn)
	assert.Equal(t, "https://facebook.com/acme", lead.Facebook)
	assert.Equal(t, "Technology", lead.Industry)
	assert.Equal(t, "Jane Doe", lead.DecisionMakerName)
	assert.Equal(t, "CEO", lead.DecisionMakerRole)
	require.NotNil(t, lead.QualityScore)
	assert.Equal(t, 100, *lead.QualityScore)
	assert.Equal(t, "Good", lead.QualityRating)
	assert.False(t, lead.NeedsBranding)
	assert.Empty(t, lead.Errors)

	assert.Equal(t, "google-maps", lead.Source)
	assert.Equal(t, "tech companies", lead.SearchQuery)
	assert.Equal(t, "New York", lead.SearchLocation)
	assert.WithinDuration(t, time.Now().UTC(), lead.ScrapedAt, time.Minute)
}

func TestEnrichDeterministicExceptTimestamp(t *testing.T) {
	c := model.Candidate{Name: "Acme Corp", Website: "https://acme.com"}

	first := New(richFetcher(t), nil, testProv).Enrich(context.Background(), c)
	second := New(richFetcher(t), nil, testProv).Enrich(context.Background(), c)
	require.NotNil(t, first)
	require.NotNil(t, second)

	first.ScrapedAt = time.Time{}
	second.ScrapedAt = time.Time{}
	assert.Equal(t, first, second)
}

func TestEnrichRepeatWebsiteSkipped(t *testing.T) {
	fetcher := richFetcher(t)
	e := New(fetcher, nil, testProv)

	first := e.Enrich(context.Background(), model.Candidate{Name: "Acme Corp", Website: "https://acme.com"})
	require.NotNil(t, first)
	fetchesAfterFirst := fetcher.fetches

	second := e.Enrich(context.Background(), model.Candidate{Name: "Acme Duplicate", Website: "https://acme.com"})
	assert.Nil(t, second)
	assert.Equal(t, fetchesAfterFirst, fetcher.fetches)
}

func TestEnrichFetchFailure(t *testing.T) {
	e := New(&fakeFetcher{err: eris.New("connection refused")}, nil, testProv)

	lead := e.Enrich(context.Background(), model.Candidate{
		Name:    "Acme Corp",
		Website: "https://acme.com",
		Phone:   "(212) 555-0100",
	})
	require.NotNil(t, lead)

	assert.Equal(t, IndustryUnknown, lead.Industry)
	require.NotNil(t, lead.QualityScore)
	assert.Equal(t, 0, *lead.QualityScore)
	assert.Equal(t, RatingUnknown, lead.QualityRating)
	assert.True(t, lead.NeedsBranding)
	assert.NotEmpty(t, lead.Errors)

	// Discovery fields survive the failed fetch.
	assert.Equal(t, "Acme Corp", lead.CompanyName)
	assert.Equal(t, "(212) 555-0100", lead.Phone)
}

func TestEnrichExtractorFailuresIsolated(t *testing.T) {
	// A fetched but unparseable page fails every extractor separately; the
	// lead is still emitted with discovery fields and one error per field.
	fetcher := &fakeFetcher{pages: map[string]*Page{
		"https://acme.com": {URL: "https://acme.com", HTTPS: true},
	}}
	e := New(fetcher, nil, testProv)

	lead := e.Enrich(context.Background(), model.Candidate{
		Name:    "Acme Corp",
		Website: "https://acme.com",
		Address: "123 Main St",
	})
	require.NotNil(t, lead)

	assert.Len(t, lead.Errors, 6)
	for _, field := range []string{"email:", "phone:", "social:", "industry:", "quality:", "decision maker:"} {
		found := false
		for _, msg := range lead.Errors {
			if strings.HasPrefix(msg, field) {
				found = true
			}
		}
		assert.True(t, found, "missing error for %s", field)
	}

	assert.Equal(t, "Acme Corp", lead.CompanyName)
	assert.Equal(t, "123 Main St", lead.Location)
	assert.Equal(t, IndustryUnknown, lead.Industry)
	require.NotNil(t, lead.QualityScore)
	assert.Equal(t, 0, *lead.QualityScore)
	assert.True(t, lead.NeedsBranding)
}

func TestEnrichKeepsDiscoveryPhone(t *testing.T) {
	e := New(richFetcher(t), nil, testProv)

	lead := e.Enrich(context.Background(), model.Candidate{
		Name:    "Acme Corp",
		Website: "https://acme.com",
		Phone:   "(999) 555-0199",
	})
	require.NotNil(t, lead)
	assert.Equal(t, "(999) 555-0199", lead.Phone)
}

func TestEnrichCustomIndustryTable(t *testing.T) {
	rules := []IndustryRule{{Label: "Software Consulting", Keywords: []string{"software"}}}
	e := New(richFetcher(t), rules, testProv)

	lead := e.Enrich(context.Background(), model.Candidate{Name: "Acme Corp", Website: "https://acme.com"})
	require.NotNil(t, lead)
	assert.Equal(t, "Software Consulting", lead.Industry)
}

func TestBasicLead(t *testing.T) {
	e := New(nil, nil, testProv)

	lead := e.BasicLead(model.Candidate{
		Name:        "Corner Cafe",
		Phone:       "(212) 555-0142",
		FullAddress: "456 Side St, New York",
	})

	assert.Equal(t, "Corner Cafe", lead.CompanyName)
	assert.Equal(t, "(212) 555-0142", lead.Phone)
	assert.Equal(t, "456 Side St, New York", lead.Location)
	assert.Empty(t, lead.WebsiteURL)
	assert.Empty(t, lead.Industry)
	assert.Nil(t, lead.QualityScore)
	assert.Equal(t, "google-maps", lead.Source)
	assert.False(t, lead.ScrapedAt.IsZero())
}
