// Package render defines the rendering-backend contract the discovery and
// enrichment stages depend on. The core only needs best-effort DOM snapshots;
// how the page is rendered is a collaborator concern.
package render

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const userAgent = "Mozilla/5.0 (compatible; LeadScoutBot/1.0)"

// ErrScrollUnsupported is returned by renderers that cannot execute
// in-page scrolling. Callers treat it as "no more items will load".
var ErrScrollUnsupported = eris.New("render: scroll not supported")

// Renderer navigates pages and returns DOM snapshots.
type Renderer interface {
	// Navigate loads the URL and blocks until the page settles.
	Navigate(ctx context.Context, url string) error
	// HTML returns a snapshot of the current document.
	HTML(ctx context.Context) (string, error)
	// Scroll scrolls the element matching selector to its bottom, loading
	// more content where the page supports it.
	Scroll(ctx context.Context, selector string) error
}

// HTTPRenderer is a plain net/http Renderer. It serves static snapshots
// only; Scroll reports ErrScrollUnsupported and callers fall back to
// whatever the initial document contains.
type HTTPRenderer struct {
	client   *http.Client
	maxBody  int64
	lastBody string
}

// NewHTTPRenderer creates an HTTPRenderer with the default client settings.
func NewHTTPRenderer(maxBody int64) *HTTPRenderer {
	if maxBody <= 0 {
		maxBody = 512 * 1024
	}
	return &HTTPRenderer{
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		maxBody: maxBody,
	}
}

func (r *HTTPRenderer) Navigate(ctx context.Context, rawURL string) error {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return eris.Wrap(err, "render: create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "render: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return eris.Errorf("render: status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBody))
	if err != nil {
		return eris.Wrap(err, "render: read body")
	}

	r.lastBody = string(body)
	return nil
}

func (r *HTTPRenderer) HTML(context.Context) (string, error) {
	if r.lastBody == "" {
		return "", eris.New("render: no page loaded")
	}
	return r.lastBody, nil
}

func (r *HTTPRenderer) Scroll(context.Context, string) error {
	return ErrScrollUnsupported
}
