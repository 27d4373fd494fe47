package sites

import (
	"context"
	"fmt"
	"time"
)

// ListOptions bounds a paginated listing.
type ListOptions struct {
	// MaxPages caps the number of listing pages fetched; 0 means no cap.
	MaxPages int
	// Delay is waited between consecutive page requests.
	Delay time.Duration
}

// Accumulate follows a site's listing pages from start until at least limit
// links are collected or the listing has no next page. Links are neither
// deduplicated nor truncated, so the result may exceed limit. A limit <= 0
// fetches the start page only.
func Accumulate(ctx context.Context, s Scraper, start string, limit int, opts ListOptions) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("scraper must not be nil")
	}

	var links []string
	pageURL := start
	for pages := 1; ; pages++ {
		page, err := s.ListPage(ctx, pageURL)
		if err != nil {
			return links, fmt.Errorf("%s list page %d (%s): %w", s.ID(), pages, pageURL, err)
		}
		links = append(links, page.Links...)

		if len(links) >= limit || page.Next == "" || page.Next == pageURL {
			return links, nil
		}
		if opts.MaxPages > 0 && pages >= opts.MaxPages {
			return links, nil
		}

		if opts.Delay > 0 {
			timer := time.NewTimer(opts.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return links, ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return links, err
		}
		pageURL = page.Next
	}
}
