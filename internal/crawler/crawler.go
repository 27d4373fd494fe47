package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
	"github.com/Adda-Baaj/berita-banjir/internal/logger"
	"github.com/Adda-Baaj/berita-banjir/pkg/publishers"
	"github.com/Adda-Baaj/berita-banjir/pkg/sites"
)

var (
	// ErrScrapeFailed is returned when the single article could not be scraped.
	ErrScrapeFailed = errors.New("failed to scrape the article")
	// ErrNoArticles is returned when a bulk run produced nothing.
	ErrNoArticles = errors.New("no articles were successfully scraped")
)

// Options holds the optional collaborators of a Service.
type Options struct {
	Store     SeenStore
	Publisher EventPublisher
	// Delay is waited between article requests unless the site overrides it.
	Delay time.Duration
	Log   logger.Logger
}

// Service drives single and bulk scraping over a site table.
type Service struct {
	table     *sites.Table
	store     SeenStore
	publisher EventPublisher
	delay     time.Duration
	log       logger.Logger
}

// NewService wires a crawler with the site table.
func NewService(table *sites.Table, opts Options) (*Service, error) {
	if table == nil {
		return nil, fmt.Errorf("site table must not be nil")
	}
	return &Service{
		table:     table,
		store:     opts.Store,
		publisher: opts.Publisher,
		delay:     opts.Delay,
		log:       logger.Ensure(opts.Log),
	}, nil
}

// ScrapeSingle resolves the site for url and scrapes that one article.
// Unsupported URLs return an error wrapping sites.ErrUnsupportedSite.
func (s *Service) ScrapeSingle(ctx context.Context, url string) (domain.Article, error) {
	scraper, err := s.table.ScraperFor(url)
	if err != nil {
		return domain.Article{}, err
	}

	art, ok := scraper.Article(ctx, url)
	if !ok {
		return domain.Article{}, ErrScrapeFailed
	}
	s.publish(ctx, scraper.Site().ID, art)
	return art, nil
}

// ScrapeBulk lists up to limit article URLs starting at baseURL and scrapes
// them one after another. Articles that fail are skipped.
func (s *Service) ScrapeBulk(ctx context.Context, baseURL string, limit int) ([]domain.Article, error) {
	scraper, err := s.table.ScraperFor(baseURL)
	if err != nil {
		return nil, err
	}
	site := scraper.Site()

	urls, _ := scraper.ListArticles(ctx, baseURL, limit)
	if limit >= 0 && len(urls) > limit {
		urls = urls[:limit]
	}
	s.log.InfoObj("article urls collected", "bulk_listing", map[string]any{
		"site_id":  site.ID,
		"base_url": baseURL,
		"limit":    limit,
		"urls":     len(urls),
	})

	delay := site.RequestDelay(s.delay)
	articles := make([]domain.Article, 0, len(urls))
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return articles, err
		}
		if s.seen(u) {
			s.log.DebugObj("article already scraped; skipping", "bulk_skip", map[string]any{
				"site_id": site.ID,
				"url":     u,
			})
			continue
		}

		art, ok := scraper.Article(ctx, u)
		if ok {
			articles = append(articles, art)
			s.mark(u)
			s.publish(ctx, site.ID, art)
		}

		if delay > 0 && i < len(urls)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return articles, ctx.Err()
			case <-timer.C:
			}
		}
	}

	s.log.InfoObj("bulk scrape completed", "bulk_result", map[string]any{
		"site_id":  site.ID,
		"scraped":  len(articles),
		"attempts": len(urls),
	})
	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	return articles, nil
}

func (s *Service) seen(url string) bool {
	if s.store == nil {
		return false
	}
	ok, err := s.store.Seen(url)
	if err != nil {
		s.log.WarnObj("seen lookup failed", "storage_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return false
	}
	return ok
}

func (s *Service) mark(url string) {
	if s.store == nil {
		return
	}
	if err := s.store.Mark(url); err != nil {
		s.log.WarnObj("mark scraped url failed", "storage_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
	}
}

func (s *Service) publish(ctx context.Context, siteID string, art domain.Article) {
	if s.publisher == nil {
		return
	}
	evt := publishers.NewEvent(publishers.KindArticle, siteID, art)
	if _, err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.ErrorObj("article publish failed", "publish_error", map[string]any{
			"site_id": siteID,
			"url":     art.URL,
			"error":   err.Error(),
		})
	}
}
