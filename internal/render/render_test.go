package render

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRendererNavigateAndHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "LeadScoutBot")
		_, _ = fmt.Fprint(w, "<html><body>hello</body></html>")
	}))
	defer ts.Close()

	r := NewHTTPRenderer(0)
	require.NoError(t, r.Navigate(context.Background(), ts.URL))

	html, err := r.HTML(context.Background())
	require.NoError(t, err)
	assert.Contains(t, html, "hello")
}

func TestHTTPRendererStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	r := NewHTTPRenderer(0)
	err := r.Navigate(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestHTTPRendererHTMLBeforeNavigate(t *testing.T) {
	r := NewHTTPRenderer(0)
	_, err := r.HTML(context.Background())
	require.Error(t, err)
}

func TestHTTPRendererScrollUnsupported(t *testing.T) {
	r := NewHTTPRenderer(0)
	assert.ErrorIs(t, r.Scroll(context.Background(), "div[role=feed]"), ErrScrollUnsupported)
}

func TestHTTPRendererBodyLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for range 1000 {
			_, _ = fmt.Fprint(w, "0123456789")
		}
	}))
	defer ts.Close()

	r := NewHTTPRenderer(100)
	require.NoError(t, r.Navigate(context.Background(), ts.URL))
	html, err := r.HTML(context.Background())
	require.NoError(t, err)
	assert.Len(t, html, 100)
}
