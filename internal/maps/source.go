// Package maps reads business candidates from the Google Maps directory
// through a render.Renderer. Selector knowledge lives here and nowhere else.
package maps

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/render"
)

const (
	baseURL      = "https://www.google.com/maps"
	feedSelector = `div[role="feed"]`
)

// Source drives the map directory: search, load-more, item extraction, and
// per-candidate detail fetches.
type Source struct {
	renderer render.Renderer
}

// NewSource creates a Source over the given renderer.
func NewSource(r render.Renderer) *Source {
	return &Source{renderer: r}
}

// Search navigates to the results feed for the query/location pair.
func (s *Source) Search(ctx context.Context, query, location string) error {
	target := baseURL + "/search/" + url.PathEscape(query+" "+location)
	if err := s.renderer.Navigate(ctx, target); err != nil {
		return eris.Wrapf(err, "maps: open search %q", query)
	}
	return nil
}

// LoadMore scrolls the results feed to trigger loading of further items.
func (s *Source) LoadMore(ctx context.Context) error {
	return s.renderer.Scroll(ctx, feedSelector)
}

// Items extracts all currently rendered result items. Items without a name
// (ads, separators) are discarded.
func (s *Source) Items(ctx context.Context) ([]model.Candidate, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "maps: read feed")
	}

	var candidates []model.Candidate
	doc.Find(`div[role="article"]`).Each(func(_ int, item *goquery.Selection) {
		name := strings.TrimSpace(item.Find("div.fontHeadlineSmall").First().Text())
		if name == "" {
			return
		}
		candidates = append(candidates, model.Candidate{
			Name:      name,
			Rating:    strings.TrimSpace(item.Find(`span[role="img"]`).First().AttrOr("aria-label", "")),
			Address:   strings.TrimSpace(item.Find("div.fontBodyMedium").First().Text()),
			DetailURL: item.Find("a").First().AttrOr("href", ""),
		})
	})
	return candidates, nil
}

// Detail navigates to the candidate's detail view and returns the candidate
// merged with website, phone, and full address. The input candidate is
// returned unchanged on navigation failure so callers can keep the partial
// record.
func (s *Source) Detail(ctx context.Context, c model.Candidate) (model.Candidate, error) {
	if c.DetailURL == "" {
		return c, eris.New("maps: candidate has no detail url")
	}
	if err := s.renderer.Navigate(ctx, c.DetailURL); err != nil {
		return c, eris.Wrapf(err, "maps: open detail for %q", c.Name)
	}
	doc, err := s.document(ctx)
	if err != nil {
		return c, eris.Wrapf(err, "maps: read detail for %q", c.Name)
	}

	c.Website = findWebsite(doc)
	if phone := findItemID(doc, "phone"); phone != "" {
		c.Phone = phone
	}
	doc.Find("button").EachWithBreak(func(_ int, btn *goquery.Selection) bool {
		if strings.Contains(btn.AttrOr("data-item-id", ""), "address") {
			c.FullAddress = strings.TrimSpace(btn.Text())
			return false
		}
		return true
	})
	return c, nil
}

func (s *Source) document(ctx context.Context) (*goquery.Document, error) {
	html, err := s.renderer.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// findWebsite returns the first outbound link that is not part of the map
// product itself.
func findWebsite(doc *goquery.Document) string {
	var website string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if !strings.HasPrefix(href, "http") {
			return true
		}
		if strings.Contains(href, "google.com") || strings.Contains(href, "/maps") || strings.Contains(href, "goo.gl") {
			return true
		}
		website = href
		return false
	})
	return website
}

// findItemID extracts the value portion of a button data-item-id attribute,
// e.g. data-item-id="phone:tel:+15125550100" for kind "phone".
func findItemID(doc *goquery.Document, kind string) string {
	var value string
	doc.Find("button").EachWithBreak(func(_ int, btn *goquery.Selection) bool {
		id := btn.AttrOr("data-item-id", "")
		if !strings.Contains(id, kind) {
			return true
		}
		if _, rest, ok := strings.Cut(id, ":"); ok {
			value = strings.TrimPrefix(rest, "tel:")
			return false
		}
		return true
	})
	return value
}
