package sites

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

const (
	tribunnewsSiteID = "tribunnews"
	tribunPageParam  = "page"
)

// tribunnewsScraper pages through index listings by the "page" query
// parameter instead of following a next link.
type tribunnewsScraper struct {
	fetcher *Fetcher
}

// NewTribunnews builds the tribunnews.com scraper.
func NewTribunnews(f *Fetcher) Scraper {
	return &tribunnewsScraper{fetcher: f}
}

func (t *tribunnewsScraper) ID() string { return tribunnewsSiteID }

func (t *tribunnewsScraper) ListPage(ctx context.Context, pageURL string) (Page, error) {
	target, pageNum, err := withPageNumber(pageURL, 0)
	if err != nil {
		return Page{}, err
	}

	doc, err := t.fetcher.Document(ctx, target)
	if err != nil {
		return Page{}, err
	}

	var page Page
	doc.Find("li.ptb15").Each(func(_ int, item *goquery.Selection) {
		href, ok := item.Find("a").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		page.Links = append(page.Links, resolveURL(href, target))
	})

	// an empty page means the listing ran out
	if len(page.Links) > 0 {
		next, _, err := withPageNumber(target, pageNum+1)
		if err != nil {
			return Page{}, err
		}
		page.Next = next
	}
	return page, nil
}

// withPageNumber sets the page query parameter. A zero page keeps the
// number already present in raw, defaulting to 1.
func withPageNumber(raw string, page int) (string, int, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, fmt.Errorf("parse listing url: %w", err)
	}
	q := u.Query()
	if page <= 0 {
		page = 1
		if n, err := strconv.Atoi(q.Get(tribunPageParam)); err == nil && n > 0 {
			page = n
		}
	}
	q.Set(tribunPageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), page, nil
}

func (t *tribunnewsScraper) Article(ctx context.Context, url string) (domain.Article, error) {
	doc, err := t.fetcher.Document(ctx, url)
	if err != nil {
		return domain.Article{}, err
	}

	root := doc.Selection
	title, err := text(root, "h1#arttitle", url)
	if err != nil {
		return domain.Article{}, err
	}
	content, err := paragraphs(root, "div.txt-article", "\n", url)
	if err != nil {
		return domain.Article{}, err
	}
	timeNode, err := first(root, "time", url)
	if err != nil {
		return domain.Article{}, err
	}
	timestamp, err := text(timeNode, "span", url)
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
