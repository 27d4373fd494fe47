package sites

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/berita-banjir/internal/logger"
)

// TableOptions configures how scrapers are built from the table.
type TableOptions struct {
	Client    HTTPClient
	UserAgent string
	MaxPages  int
	Delay     time.Duration
	Builders  map[string]Builder
	Log       logger.Logger
}

// Table resolves URLs to sites and builds error-isolated scrapers for them.
type Table struct {
	sites    []Site
	builders map[string]Builder
	opts     TableOptions
	log      logger.Logger
}

// NewTable builds a table over sites. Every site needs a registered builder.
func NewTable(sites []Site, opts TableOptions) (*Table, error) {
	if len(sites) == 0 {
		return nil, fmt.Errorf("site table is empty")
	}
	builders := opts.Builders
	if builders == nil {
		builders = DefaultBuilders()
	}
	for _, s := range sites {
		if _, ok := builders[s.ID]; !ok {
			return nil, fmt.Errorf("no scraper implementation for site %q", s.ID)
		}
	}
	if opts.Client == nil {
		opts.Client = DefaultHTTPClient(DefaultTimeout)
	}

	cp := make([]Site, len(sites))
	copy(cp, sites)
	return &Table{
		sites:    cp,
		builders: builders,
		opts:     opts,
		log:      logger.Ensure(opts.Log),
	}, nil
}

// Sites returns the table entries in resolution order.
func (t *Table) Sites() []Site {
	out := make([]Site, len(t.sites))
	copy(out, t.sites)
	return out
}

// Resolve finds the site a URL belongs to. Base URLs are tried first, then
// the extra match substrings, both in table order.
func (t *Table) Resolve(rawURL string) (Site, bool) {
	for _, s := range t.sites {
		if s.BaseURL != "" && strings.Contains(rawURL, s.BaseURL) {
			return s, true
		}
	}
	for _, s := range t.sites {
		for _, m := range s.Match {
			if strings.Contains(rawURL, m) {
				return s, true
			}
		}
	}
	return Site{}, false
}

// ScraperFor returns the error-isolated scraper for the site rawURL belongs to.
func (t *Table) ScraperFor(rawURL string) (*Safe, error) {
	site, ok := t.Resolve(rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSite, rawURL)
	}
	return t.Build(site), nil
}

// Build creates the error-isolated scraper for a table entry.
func (t *Table) Build(site Site) *Safe {
	fetcher := NewFetcher(t.opts.Client, Headers(site, t.opts.UserAgent))
	scraper := t.builders[site.ID](fetcher)
	return NewSafe(site, scraper, ListOptions{
		MaxPages: t.opts.MaxPages,
		Delay:    site.RequestDelay(t.opts.Delay),
	}, t.log)
}
