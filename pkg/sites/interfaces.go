package sites

import (
	"context"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
	"github.com/Adda-Baaj/berita-banjir/pkg/httpclient"
)

// Scraper extracts listings and articles from one news site's markup.
// Concrete implementations live in site-specific files (e.g., detik.go).
type Scraper interface {
	ID() string
	// ListPage returns the article links found on a single listing page and
	// the URL of the following page, or "" when there is none.
	ListPage(ctx context.Context, pageURL string) (Page, error)
	Article(ctx context.Context, url string) (domain.Article, error)
}

// Page is one listing page worth of article links.
type Page struct {
	Links []string
	Next  string
}

// Builder constructs a Scraper bound to a fetcher.
type Builder func(f *Fetcher) Scraper

// HTTPClient aliases the shared httpclient.Client interface for clarity within sites.
type HTTPClient = httpclient.Client
