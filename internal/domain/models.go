package domain

import (
	"encoding/json"
	"strings"
)

// Domain contains core models shared by the scraper and the analyzer.

// Article is one scraped news item. Timestamp keeps the site's own format.
type Article struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Severity grades the impact of a flood.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// AffectedArea is a location the article reports as flooded.
type AffectedArea struct {
	Regency  string `json:"regency"`
	Province string `json:"province"`
}

// UnmarshalJSON accepts the key spellings models tend to produce for the
// regency/city field.
func (a *AffectedArea) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Regency = firstString(raw, "regency", "regency/city", "city", "regency_city")
	a.Province = firstString(raw, "province")
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// AnalyzedArticle is an Article enriched with LLM-extracted flood metadata.
// FloodSeverity is empty (and omitted) when the model answer could not be parsed.
type AnalyzedArticle struct {
	Source        string         `json:"source"`
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	PublishedTime *string        `json:"published_time"`
	AffectedAreas []AffectedArea `json:"affected_areas"`
	FloodSeverity Severity       `json:"flood_severity,omitempty"`
	FloodTime     string         `json:"flood_time"`
}
