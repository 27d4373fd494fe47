package sites

import (
	"context"
	"strings"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

const (
	detikSiteID = "detik"

	detikVideoHost   = "20.detik.com"
	detikWolipopHost = "wolipop.detik.com"
)

// detikScraper reads detik.com index pages and articles, including the
// wolipop sub-site which uses its own template.
type detikScraper struct {
	fetcher *Fetcher
}

// NewDetik builds the detik.com scraper.
func NewDetik(f *Fetcher) Scraper {
	return &detikScraper{fetcher: f}
}

func (d *detikScraper) ID() string { return detikSiteID }

func (d *detikScraper) ListPage(ctx context.Context, pageURL string) (Page, error) {
	doc, err := d.fetcher.Document(ctx, pageURL)
	if err != nil {
		return Page{}, err
	}

	var page Page
	doc.Find("div.list--feed").Each(func(_ int, feed *goquery.Selection) {
		feed.Find("article").Each(func(_ int, art *goquery.Selection) {
			href, ok := art.Find("a").First().Attr("href")
			if !ok || strings.TrimSpace(href) == "" || strings.Contains(href, detikVideoHost) {
				return
			}
			page.Links = append(page.Links, resolveURL(href, pageURL))
		})
	})

	if next, ok := doc.Find("div.paging").First().ChildrenFiltered("a").Last().Attr("href"); ok {
		page.Next = resolveURL(next, pageURL)
	}
	return page, nil
}

func (d *detikScraper) Article(ctx context.Context, url string) (domain.Article, error) {
	doc, err := d.fetcher.Document(ctx, url)
	if err != nil {
		return domain.Article{}, err
	}

	titleSel, dateSel, bodySel := "h1.detail__title", "div.detail__date", "div.detail__body-text"
	if strings.Contains(url, detikWolipopHost) {
		titleSel, dateSel, bodySel = "h1.itp_title_detail", "div.text-black-light3", "div.itp_bodycontent"
	}

	root := doc.Selection
	title, err := text(root, titleSel, url)
	if err != nil {
		return domain.Article{}, err
	}
	timestamp, err := text(root, dateSel, url)
	if err != nil {
		return domain.Article{}, err
	}
	content, err := paragraphs(root, bodySel, " ", url)
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
