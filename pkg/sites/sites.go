package sites

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Package sites contains the site table and per-site scraper implementations.

// Site is one entry of the site table.
type Site struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	BaseURL        string         `json:"base_url" yaml:"base_url"`
	Match          []string       `json:"match" yaml:"match"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type sitesFile struct {
	Sites []Site `json:"sites" yaml:"sites"`
}

// DefaultSites returns the built-in site table in resolution order.
func DefaultSites() []Site {
	return []Site{
		{ID: detikSiteID, Name: "detikcom", BaseURL: "https://www.detik.com", Match: []string{"detik.com"}},
		{ID: kompasSiteID, Name: "Kompas.com", BaseURL: "https://www.kompas.com", Match: []string{"kompas.com"}},
		{ID: tribunnewsSiteID, Name: "Tribunnews", BaseURL: "https://www.tribunnews.com", Match: []string{"tribunnews.com"}},
	}
}

// DefaultBuilders maps site ids to their scraper implementations.
func DefaultBuilders() map[string]Builder {
	return map[string]Builder{
		detikSiteID:      NewDetik,
		kompasSiteID:     NewKompas,
		tribunnewsSiteID: NewTribunnews,
	}
}

// LoadSites reads a YAML/JSON sites file and merges it over DefaultSites.
// Entries replace the default with the same id; unknown ids are appended.
// An empty path returns the defaults.
func LoadSites(path string) ([]Site, error) {
	out := DefaultSites()
	if strings.TrimSpace(path) == "" {
		return out, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sites file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}

	parsed, err := parseSitesFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Sites) == 0 {
		return nil, errors.New("sites file contains no sites entries")
	}

	seen := make(map[string]bool, len(parsed.Sites))
	for i := range parsed.Sites {
		s := sanitizeSite(parsed.Sites[i])
		if err := validateSite(s); err != nil {
			return nil, fmt.Errorf("site[%d]: %w", i, err)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate site id %q", s.ID)
		}
		seen[s.ID] = true

		replaced := false
		for j := range out {
			if out[j].ID == s.ID {
				out[j] = s
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, s)
		}
	}
	return out, nil
}

func parseSitesFile(data []byte, ext string) (sitesFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f sitesFile
		if err := d.fn(data, &f); err == nil {
			return f, nil
		}
	}

	return sitesFile{}, errors.New("sites file format not recognized (expected YAML or JSON)")
}

func sanitizeSite(s Site) Site {
	s.ID = strings.ToLower(strings.TrimSpace(s.ID))
	s.Name = strings.TrimSpace(s.Name)
	s.BaseURL = strings.TrimSpace(s.BaseURL)

	match := make([]string, 0, len(s.Match))
	for _, m := range s.Match {
		if m = strings.TrimSpace(m); m != "" {
			match = append(match, m)
		}
	}
	s.Match = match

	if s.Name == "" {
		s.Name = s.ID
	}
	if s.Config == nil {
		s.Config = map[string]any{}
	}
	if s.RequestDelayMs < 0 {
		s.RequestDelayMs = 0
	}
	return s
}

func validateSite(s Site) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if s.BaseURL == "" {
		return fmt.Errorf("base_url is required for site %q", s.ID)
	}
	return nil
}

// RequestDelay returns the pause between listing page requests, or fallback
// when the site does not set one.
func (s Site) RequestDelay(fallback time.Duration) time.Duration {
	if s.RequestDelayMs <= 0 {
		return fallback
	}
	return time.Duration(s.RequestDelayMs) * time.Millisecond
}

// ConfigString returns the trimmed string value for key from site.Config or a fallback.
func ConfigString(s Site, key, fallback string) string {
	if s.Config != nil {
		if raw, ok := s.Config[key]; ok {
			if val, ok := raw.(string); ok {
				if trimmed := strings.TrimSpace(val); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return fallback
}

const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
)

// Headers builds the request headers for a site. The user agent falls back to
// defaultUA; other headers are skipped when empty.
func Headers(s Site, defaultUA string) map[string]string {
	headers := make(map[string]string, 3)

	if v := ConfigString(s, ConfigUserAgentKey, defaultUA); v != "" {
		headers["User-Agent"] = v
	}
	if v := ConfigString(s, ConfigAcceptKey, ""); v != "" {
		headers["Accept"] = v
	}
	if v := ConfigString(s, ConfigAcceptLanguageKey, ""); v != "" {
		headers["Accept-Language"] = v
	}

	return headers
}
