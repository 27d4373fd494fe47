package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
)

// FallbackFloodTime is reported when the model answer is not JSON.
const FallbackFloodTime = "Unable to determine"

// ErrMalformedAnalysis marks a JSON answer that lacks the expected shape.
var ErrMalformedAnalysis = errors.New("malformed analysis")

var requiredKeys = []string{"affected_areas", "flood_time", "published_time"}

// Analysis is the structured answer extracted for one article.
type Analysis struct {
	AffectedAreas []domain.AffectedArea
	FloodSeverity domain.Severity
	FloodTime     string
	PublishedTime *string
	// Fallback is set when the answer was unparseable and defaults were used.
	Fallback bool
}

// FallbackAnalysis is substituted for answers that are not valid JSON.
// It carries no severity.
func FallbackAnalysis() Analysis {
	return Analysis{
		AffectedAreas: []domain.AffectedArea{},
		FloodTime:     FallbackFloodTime,
		Fallback:      true,
	}
}

// ParseAnalysis decodes a model answer. Text that is not JSON yields
// FallbackAnalysis; JSON that is not an object with the required keys
// returns an error wrapping ErrMalformedAnalysis.
func ParseAnalysis(text string) (Analysis, error) {
	data := []byte(stripCodeFence(text))
	if !json.Valid(data) {
		return FallbackAnalysis(), nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}
	for _, k := range requiredKeys {
		if _, ok := raw[k]; !ok {
			return Analysis{}, fmt.Errorf("%w: missing key %q", ErrMalformedAnalysis, k)
		}
	}

	var out Analysis
	if err := json.Unmarshal(raw["affected_areas"], &out.AffectedAreas); err != nil {
		return Analysis{}, fmt.Errorf("%w: affected_areas: %v", ErrMalformedAnalysis, err)
	}
	if out.AffectedAreas == nil {
		out.AffectedAreas = []domain.AffectedArea{}
	}
	if err := json.Unmarshal(raw["flood_time"], &out.FloodTime); err != nil {
		return Analysis{}, fmt.Errorf("%w: flood_time: %v", ErrMalformedAnalysis, err)
	}
	if err := json.Unmarshal(raw["published_time"], &out.PublishedTime); err != nil {
		return Analysis{}, fmt.Errorf("%w: published_time: %v", ErrMalformedAnalysis, err)
	}

	if sev, ok := raw["flood_severity"]; ok {
		var s string
		if err := json.Unmarshal(sev, &s); err == nil {
			if v := domain.Severity(strings.ToLower(strings.TrimSpace(s))); v.Valid() {
				out.FloodSeverity = v
			}
		}
	}
	return out, nil
}

// stripCodeFence removes a surrounding Markdown code fence, if any.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
