package enrich

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DecisionMaker is a named leadership contact found on the site.
type DecisionMaker struct {
	Name string
	Role string
}

// decisionTitles is ordered by seniority; the first title with a match wins.
var decisionTitles = []string{"CEO", "Founder", "Co-Founder", "President", "Director", "Owner"}

var teamLinkRe = regexp.MustCompile(`(?i)team|about|leadership`)

var nameRe = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+`)

var titleRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(decisionTitles))
	for _, title := range decisionTitles {
		res[title] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(title) + `\b`)
	}
	return res
}()

// nameWindow bounds how far before a title we look for its name, so a
// headline at the top of the page is not paired with a title in the footer.
const nameWindow = 200

// FindDecisionMaker looks for a (name, title) pair, preferring a dedicated
// team/about/leadership page when one is linked and fetchable. Nil result
// means none found.
func FindDecisionMaker(ctx context.Context, p *Page, fetcher Fetcher) (*DecisionMaker, error) {
	if p == nil || p.Doc == nil {
		return nil, eris.New("decision maker: no page")
	}

	text := p.Text
	if teamURL := findTeamLink(p); teamURL != "" && fetcher != nil {
		teamPage, err := fetcher.Fetch(ctx, teamURL)
		if err != nil {
			// The homepage text is still worth scanning.
			zap.L().Debug("enrich: team page fetch failed",
				zap.String("url", teamURL),
				zap.Error(err),
			)
		} else {
			text = teamPage.Text
		}
	}

	return matchDecisionMaker(text), nil
}

func findTeamLink(p *Page) string {
	var href string
	p.Doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if teamLinkRe.MatchString(a.Text()) {
			href = p.resolveLink(a.AttrOr("href", ""))
			return false
		}
		return true
	})
	return href
}

// matchDecisionMaker pairs the highest-priority title on the page with the
// nearest two-capitalized-word name preceding it.
func matchDecisionMaker(text string) *DecisionMaker {
	for _, title := range decisionTitles {
		for _, loc := range titleRes[title].FindAllStringIndex(text, -1) {
			start := loc[0] - nameWindow
			if start < 0 {
				start = 0
			}
			names := nameRe.FindAllString(text[start:loc[0]], -1)
			if len(names) > 0 {
				return &DecisionMaker{
					Name: strings.TrimSpace(names[len(names)-1]),
					Role: title,
				}
			}
		}
	}
	return nil
}
