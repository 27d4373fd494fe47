package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Adda-Baaj/berita-banjir/internal/config"
	"github.com/Adda-Baaj/berita-banjir/pkg/sites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		PublishersFile:    filepath.Join(dir, "publishers.yaml"),
		HTTPTimeout:       time.Second,
		UserAgent:         config.DefaultUserAgent,
		MaxPages:          2,
		StorageType:       "none",
		OpenAIModel:       "gpt-5-nano",
		AnalyzerInputDir:  dir,
		AnalyzerOutputDir: filepath.Join(dir, "analyzed"),
	}
}

func TestBuildFanoutWithoutFile(t *testing.T) {
	fanout, err := buildFanout(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	assert.Zero(t, fanout.Size())
}

func TestBuildFanoutFromFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.PublishersFile, []byte(`
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com/hook
  - id: off
    type: http
    enabled: false
    http:
      url: https://example.com/off
`), 0o644))

	fanout, err := buildFanout(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fanout.Size())
}

func TestNewScraperRejectsUnsupportedSite(t *testing.T) {
	s, err := NewScraper(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ScrapeSingle(context.Background(), "https://example.org/berita")
	assert.ErrorIs(t, err, sites.ErrUnsupportedSite)
}

func TestNewScraperBadStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageType = "redis"
	_, err := NewScraper(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewAnalyzerRequiresAPIKey(t *testing.T) {
	_, err := NewAnalyzer(context.Background(), testConfig(t), nil)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestNewAnalyzerRunsWithEmptyInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenAIAPIKey = "sk-test"

	a, err := NewAnalyzer(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	sum, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.Processed)
	assert.FileExists(t, sum.OutputFile)
}
