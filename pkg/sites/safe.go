package sites

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
	"github.com/Adda-Baaj/berita-banjir/internal/logger"
)

// Catch turns a fallible operation into one that never fails: errors and
// panics are logged once and reported as ok=false with a zero result.
func Catch[A, R any](log logger.Logger, op string, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, bool) {
	log = logger.Ensure(log)
	return func(ctx context.Context, arg A) (res R, ok bool) {
		defer func() {
			if r := recover(); r != nil {
				var zero R
				res, ok = zero, false
				log.ErrorObj("scrape operation panicked", "scrape_error", map[string]any{
					"operation": op,
					"input":     fmt.Sprint(arg),
					"error":     fmt.Sprint(r),
				})
			}
		}()

		out, err := fn(ctx, arg)
		if err != nil {
			log.ErrorObj("scrape operation failed", "scrape_error", map[string]any{
				"operation": op,
				"input":     fmt.Sprint(arg),
				"error":     err.Error(),
			})
			var zero R
			return zero, false
		}
		return out, true
	}
}

type listRequest struct {
	Start string
	Limit int
}

func (r listRequest) String() string {
	return fmt.Sprintf("%s (limit %d)", r.Start, r.Limit)
}

// Safe exposes a Scraper's public operations behind Catch so one bad page or
// article never aborts a run. Callers must check ok.
type Safe struct {
	site    Site
	list    func(context.Context, listRequest) ([]string, bool)
	article func(context.Context, string) (domain.Article, bool)
}

// NewSafe wraps s for site using the given listing options.
func NewSafe(site Site, s Scraper, opts ListOptions, log logger.Logger) *Safe {
	listFn := func(ctx context.Context, req listRequest) ([]string, error) {
		return Accumulate(ctx, s, req.Start, req.Limit, opts)
	}
	return &Safe{
		site:    site,
		list:    Catch(log, s.ID()+".list_articles", listFn),
		article: Catch(log, s.ID()+".scrape_article", s.Article),
	}
}

// Site returns the table entry this scraper was built for.
func (s *Safe) Site() Site { return s.site }

// ListArticles collects at least limit article URLs starting from start
// (the site's base URL when empty).
func (s *Safe) ListArticles(ctx context.Context, start string, limit int) ([]string, bool) {
	if start == "" {
		start = s.site.BaseURL
	}
	return s.list(ctx, listRequest{Start: start, Limit: limit})
}

// Article scrapes a single article page.
func (s *Safe) Article(ctx context.Context, url string) (domain.Article, bool) {
	return s.article(ctx, url)
}
