package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateLocation(t *testing.T) {
	assert.Equal(t, "12 Main St", Candidate{Address: "12 Main St"}.Location())
	assert.Equal(t, "12 Main St, Springfield", Candidate{FullAddress: "12 Main St, Springfield"}.Location())
	assert.Equal(t, "12 Main St", Candidate{Address: "12 Main St", FullAddress: "other"}.Location())
	assert.Equal(t, "", Candidate{}.Location())
}

func TestLeadJSONRoundTrip(t *testing.T) {
	q := 65
	lead := Lead{
		CompanyName:    "Acme Dental",
		WebsiteURL:     "https://acmedental.com",
		Industry:       "Healthcare",
		QualityScore:   &q,
		QualityRating:  "Average",
		LeadScore:      70,
		Source:         "google-maps",
		SearchQuery:    "dentists",
		SearchLocation: "Austin",
		ScrapedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Errors:         []string{"decision maker: timeout"},
	}

	data, err := json.Marshal(lead)
	require.NoError(t, err)

	var got Lead
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, lead, got)
	require.NotNil(t, got.QualityScore)
	assert.Equal(t, 65, *got.QualityScore)
}

func TestLeadOmitsUnsetQualityScore(t *testing.T) {
	data, err := json.Marshal(Lead{CompanyName: "No Site LLC"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "website_quality_score")
}
