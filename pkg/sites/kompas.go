package sites

import (
	"context"
	"strings"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

const (
	kompasSiteID    = "kompas"
	kompasVideoHost = "video.kompas.com"
)

// kompasScraper reads kompas.com index pages and articles.
type kompasScraper struct {
	fetcher *Fetcher
}

// NewKompas builds the kompas.com scraper.
func NewKompas(f *Fetcher) Scraper {
	return &kompasScraper{fetcher: f}
}

func (k *kompasScraper) ID() string { return kompasSiteID }

func (k *kompasScraper) ListPage(ctx context.Context, pageURL string) (Page, error) {
	doc, err := k.fetcher.Document(ctx, pageURL)
	if err != nil {
		return Page{}, err
	}

	list, err := first(doc.Selection, "div.articleList", pageURL)
	if err != nil {
		return Page{}, err
	}

	var page Page
	list.Find("div.articleItem").Each(func(_ int, item *goquery.Selection) {
		href, ok := item.Find("a.article-link").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" || strings.Contains(href, kompasVideoHost) {
			return
		}
		page.Links = append(page.Links, resolveURL(href, pageURL))
	})

	if next, ok := doc.Find("a.paging__link--next").First().Attr("href"); ok {
		page.Next = resolveURL(next, pageURL)
	}
	return page, nil
}

func (k *kompasScraper) Article(ctx context.Context, url string) (domain.Article, error) {
	doc, err := k.fetcher.Document(ctx, url)
	if err != nil {
		return domain.Article{}, err
	}

	root := doc.Selection
	title, err := text(root, "h1.read__title", url)
	if err != nil {
		return domain.Article{}, err
	}
	content, err := paragraphs(root, "div.read__content", " ", url)
	if err != nil {
		return domain.Article{}, err
	}
	timestamp, err := text(root, "div.read__time", url)
	if err != nil {
		return domain.Article{}, err
	}

	return domain.Article{
		URL:       url,
		Title:     title,
		Content:   content,
		Timestamp: timestamp,
	}, nil
}
