package crawler

import (
	"context"

	"github.com/Adda-Baaj/berita-banjir/pkg/publishers"
)

// EventPublisher publishes scraped articles downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// SeenStore remembers article URLs already scraped by earlier bulk runs.
type SeenStore interface {
	Seen(url string) (bool, error)
	Mark(url string) error
}
