// Package scorer ranks leads 0-100 by outreach potential. Weak websites
// score higher than polished ones because the product sells redesigns.
package scorer

import (
	"github.com/sells-group/leadscout/internal/enrich"
	"github.com/sells-group/leadscout/internal/model"
)

// Score computes the lead's priority from its contact channels, website
// quality, and profile completeness. Deterministic for a given lead.
func Score(lead *model.Lead) int {
	score := 0

	if lead.Email != "" {
		score += 20
	}
	if lead.Phone != "" {
		score += 15
	}
	if lead.DecisionMakerName != "" {
		score += 5
	}

	if lead.QualityScore != nil {
		switch q := *lead.QualityScore; {
		case q < 40:
			score += 30
		case q < 70:
			score += 20
		default:
			score += 10
		}
	}

	if lead.LinkedIn != "" {
		score += 5
	}
	if lead.Facebook != "" {
		score += 5
	}
	if lead.Twitter != "" || lead.Instagram != "" {
		score += 5
	}

	// "Other" still means the site was classified; only a failed or absent
	// classification earns nothing.
	if lead.Industry != "" && lead.Industry != enrich.IndustryUnknown {
		score += 5
	}
	if lead.Location != "" {
		score += 5
	}
	if lead.CompanyName != "" {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
