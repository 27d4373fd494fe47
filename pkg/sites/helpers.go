package sites

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// first returns the first match of sel under root or a SelectorError.
func first(root *goquery.Selection, sel, pageURL string) (*goquery.Selection, error) {
	node := root.Find(sel).First()
	if node.Length() == 0 {
		return nil, &SelectorError{Selector: sel, URL: pageURL}
	}
	return node, nil
}

// text returns the trimmed text of the first match of sel.
func text(root *goquery.Selection, sel, pageURL string) (string, error) {
	node, err := first(root, sel, pageURL)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(node.Text()), nil
}

// paragraphs joins the trimmed text of every <p> inside the first match of sel.
func paragraphs(root *goquery.Selection, sel, sep, pageURL string) (string, error) {
	container, err := first(root, sel, pageURL)
	if err != nil {
		return "", err
	}
	var parts []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, sep), nil
}

// resolveURL makes href absolute against base; empty input stays empty.
func resolveURL(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
