package enrich

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// Quality is the website quality assessment.
type Quality struct {
	Score         int
	Rating        string
	NeedsBranding bool
}

// RatingUnknown marks a site whose quality could not be assessed.
const RatingUnknown = "Unknown"

// failedQuality fails toward flagging the lead as needing help rather than
// silently passing it.
func failedQuality() Quality {
	return Quality{Score: 0, Rating: RatingUnknown, NeedsBranding: true}
}

// AssessQuality scores the website 0-100 from seven page signals and maps
// the score to a rating label.
func AssessQuality(p *Page) (Quality, error) {
	if p == nil || p.Doc == nil {
		return failedQuality(), eris.New("quality: no page")
	}

	score := 0
	if p.HTTPS {
		score += 20
	}
	if p.Doc.Find(`meta[name="viewport"]`).Length() > 0 {
		score += 20
	}
	if hasLogoImage(p.Doc) {
		score += 15
	}
	if hasContactLink(p.Doc) {
		score += 10
	}
	if p.Doc.Find("img").Length() >= 5 {
		score += 10
	}
	if p.Doc.Find(`[class*="flex"]`).Length() > 0 {
		score += 15
	}
	if social, _ := ExtractSocialLinks(p); social.Any() {
		score += 10
	}

	rating := "Poor"
	switch {
	case score >= 70:
		rating = "Good"
	case score >= 40:
		rating = "Average"
	}

	return Quality{
		Score:         score,
		Rating:        rating,
		NeedsBranding: score < 50,
	}, nil
}

func hasLogoImage(doc *goquery.Document) bool {
	found := false
	doc.Find("img[alt]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(img.AttrOr("alt", "")), "logo") {
			found = true
			return false
		}
		return true
	})
	return found
}

func hasContactLink(doc *goquery.Document) bool {
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(a.AttrOr("href", "")), "contact") {
			found = true
			return false
		}
		return true
	})
	return found
}
