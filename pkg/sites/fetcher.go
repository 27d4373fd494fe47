package sites

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/berita-banjir/pkg/httpclient"
	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTimeout bounds every page request.
	DefaultTimeout   = 30 * time.Second
	maxHTMLBodyBytes = 4 << 20 // 4 MiB
)

// Fetcher issues GET requests with fixed identification headers and parses
// the body as HTML.
type Fetcher struct {
	client  HTTPClient
	headers map[string]string
}

// DefaultHTTPClient returns the resty-backed client used for page fetches.
func DefaultHTTPClient(timeout time.Duration) HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return httpclient.NewRestyClient(timeout)
}

// NewFetcher builds a fetcher that sends headers with every request.
func NewFetcher(client HTTPClient, headers map[string]string) *Fetcher {
	if client == nil {
		client = DefaultHTTPClient(DefaultTimeout)
	}
	return &Fetcher{client: client, headers: headers}
}

// Document fetches url and parses it. Any non-2xx status is an error.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := f.client.Get(ctx, url, f.headers)
	if err != nil {
		return nil, fmt.Errorf("http fetch %s: %w", url, err)
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &StatusError{URL: url, Code: code, Snippet: responseSnippet(body)}
	}
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", url, err)
	}
	return doc, nil
}
