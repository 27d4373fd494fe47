package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds.
const (
	KindArticle       = "article"
	KindFloodAnalysis = "flood_analysis"
)

// Event represents the payload published downstream.
type Event struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Source      string    `json:"source"`
	Payload     any       `json:"payload"`
	CollectedAt time.Time `json:"collected_at"`
}

// NewEvent constructs an Event for a scraped article or an analysis result.
func NewEvent(kind, source string, payload any) Event {
	return Event{
		ID:          uuid.NewString(),
		Kind:        kind,
		Source:      source,
		Payload:     payload,
		CollectedAt: time.Now().UTC(),
	}
}

// Attributes returns the routing attributes sent alongside the message body.
func (e Event) Attributes() map[string]string {
	return map[string]string{
		"source": e.Source,
		"kind":   e.Kind,
	}
}
