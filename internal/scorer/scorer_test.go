package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadscout/internal/enrich"
	"github.com/sells-group/leadscout/internal/model"
)

func intPtr(v int) *int { return &v }

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		lead model.Lead
		want int
	}{
		{
			name: "empty lead",
			lead: model.Lead{},
			want: 0,
		},
		{
			name: "contact channels only",
			lead: model.Lead{Email: "info@acme.com", Phone: "(212) 555-0100"},
			want: 35,
		},
		{
			name: "contacts plus weak website",
			lead: model.Lead{
				Email:        "info@acme.com",
				Phone:        "(212) 555-0100",
				QualityScore: intPtr(10),
			},
			want: 65,
		},
		{
			name: "weak website outranks polished one",
			lead: model.Lead{QualityScore: intPtr(25)},
			want: 30,
		},
		{
			name: "average website",
			lead: model.Lead{QualityScore: intPtr(55)},
			want: 20,
		},
		{
			name: "polished website",
			lead: model.Lead{QualityScore: intPtr(90)},
			want: 10,
		},
		{
			name: "unassessed website earns nothing",
			lead: model.Lead{QualityScore: nil},
			want: 0,
		},
		{
			name: "social channels capped per platform pair",
			lead: model.Lead{
				LinkedIn:  "https://linkedin.com/company/acme",
				Facebook:  "https://facebook.com/acme",
				Twitter:   "https://x.com/acme",
				Instagram: "https://instagram.com/acme",
			},
			want: 15,
		},
		{
			name: "other industry still counts as classified",
			lead: model.Lead{Industry: enrich.IndustryOther},
			want: 5,
		},
		{
			name: "unknown industry earns nothing",
			lead: model.Lead{Industry: enrich.IndustryUnknown},
			want: 0,
		},
		{
			name: "profile completeness",
			lead: model.Lead{CompanyName: "Acme Corp", Location: "New York", Industry: "Technology"},
			want: 15,
		},
		{
			name: "full lead reaches 100",
			lead: model.Lead{
				CompanyName:       "Acme Corp",
				Location:          "New York",
				Industry:          "Technology",
				Email:             "info@acme.com",
				Phone:             "(212) 555-0100",
				DecisionMakerName: "Jane Doe",
				QualityScore:      intPtr(20),
				LinkedIn:          "https://linkedin.com/company/acme",
				Facebook:          "https://facebook.com/acme",
				Twitter:           "https://x.com/acme",
				Instagram:         "https://instagram.com/acme",
			},
			want: 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(&tt.lead))
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	lead := model.Lead{Email: "info@acme.com", QualityScore: intPtr(30), CompanyName: "Acme"}
	assert.Equal(t, Score(&lead), Score(&lead))
}
