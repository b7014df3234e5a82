package enrich

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// SocialLinks holds at most one URL per recognized platform.
type SocialLinks struct {
	LinkedIn  string
	Facebook  string
	Twitter   string
	Instagram string
}

// Any reports whether at least one platform link was found.
func (s SocialLinks) Any() bool {
	return s.LinkedIn != "" || s.Facebook != "" || s.Twitter != "" || s.Instagram != ""
}

// ExtractSocialLinks scans outbound links for the four recognized platforms,
// matching on host so "x.com" does not catch unrelated domains. First match
// wins per platform.
func ExtractSocialLinks(p *Page) (SocialLinks, error) {
	var links SocialLinks
	if p == nil || p.Doc == nil {
		return links, eris.New("social: no page")
	}

	p.Doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		switch {
		case hostIs(href, "linkedin.com") && links.LinkedIn == "":
			links.LinkedIn = href
		case hostIs(href, "facebook.com") && links.Facebook == "":
			links.Facebook = href
		case (hostIs(href, "twitter.com") || hostIs(href, "x.com")) && links.Twitter == "":
			links.Twitter = href
		case hostIs(href, "instagram.com") && links.Instagram == "":
			links.Instagram = href
		}
	})
	return links, nil
}

// hostIs reports whether the link's host is domain or a subdomain of it,
// case-insensitively.
func hostIs(href, domain string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}
