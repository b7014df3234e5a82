// Package enrich derives contact, classification, and quality fields from a
// company's website. Each extractor is independent and fault-isolated: a
// failure collapses to that field's neutral default and is recorded on the
// lead, never aborting the others.
package enrich

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (compatible; LeadScoutBot/1.0)"

// Page is a fetched snapshot of a company website, shared by all extractors.
type Page struct {
	URL   string
	HTTPS bool
	Doc   *goquery.Document
	// Text is the visible page text with whitespace collapsed.
	Text string
	// Meta is the meta-description content, if any.
	Meta string
}

// Fetcher loads website pages for enrichment.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// HTTPFetcher fetches pages over plain HTTP with rate limiting.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	maxBody int64
}

// NewHTTPFetcher creates an HTTPFetcher. rps <= 0 disables pacing.
func NewHTTPFetcher(timeout time.Duration, maxBody int64, rps float64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBody <= 0 {
		maxBody = 512 * 1024
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(limit, 1),
		maxBody: maxBody,
	}
}

// Fetch loads the URL and parses it into a Page.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "enrich: wait limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("enrich: status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, eris.Wrap(err, "enrich: read body")
	}

	finalURL := resp.Request.URL.String()
	return ParsePage(finalURL, string(body))
}

// ParsePage builds a Page from raw HTML. Exposed so extractors can be tested
// against static documents.
func ParsePage(pageURL, html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "enrich: parse html")
	}

	doc.Find("script, style, noscript").Remove()

	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: parse url")
	}

	return &Page{
		URL:   pageURL,
		HTTPS: u.Scheme == "https",
		Doc:   doc,
		Text:  strings.Join(strings.Fields(doc.Find("body").Text()), " "),
		Meta:  doc.Find(`meta[name="description"]`).AttrOr("content", ""),
	}, nil
}

// resolveLink makes href absolute against the page URL.
func (p *Page) resolveLink(href string) string {
	base, err := url.Parse(p.URL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
