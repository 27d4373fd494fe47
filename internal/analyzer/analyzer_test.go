package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
	"github.com/Adda-Baaj/berita-banjir/internal/logger"
	"github.com/Adda-Baaj/berita-banjir/pkg/publishers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubCompleter struct {
	answers map[string]string
	err     map[string]error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, _, input string) (string, error) {
	s.prompts = append(s.prompts, input)
	for title, err := range s.err {
		if containsTitle(input, title) {
			return "", err
		}
	}
	for title, answer := range s.answers {
		if containsTitle(input, title) {
			return answer, nil
		}
	}
	return "not json", nil
}

func containsTitle(prompt, title string) bool {
	return strings.Contains(prompt, "Title: "+title+"\n")
}

type recordingPublisher struct {
	events []publishers.Event
}

func (r *recordingPublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	r.events = append(r.events, evt)
	return 1, nil
}

func writeArticles(t *testing.T, dir, name string, arts []domain.Article) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	raw, err := json.Marshal(arts)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), raw, 0o644))
}

func readBatch(t *testing.T, path string) []map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

var fixedNow = func() time.Time { return time.Date(2025, 11, 10, 18, 0, 0, 0, time.UTC) }

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeArticles(t, filepath.Join(root, "detik"), "articles_1.json", []domain.Article{{
		URL: "https://x", Title: "T", Content: "C", Timestamp: "Senin, 10 Nov 2025 17:43 WIB",
	}})

	llm := &stubCompleter{answers: map[string]string{
		"T": `{"affected_areas": [{"regency":"Bandung","province":"West Java"}], "flood_severity":"moderate", "flood_time":"2025-11-09", "published_time":"2025-11-10T10:43:00Z"}`,
	}}
	pub := &recordingPublisher{}
	a, err := New(Options{
		InputDir:  root,
		OutputDir: filepath.Join(root, "analyzed"),
		Completer: llm,
		Publisher: pub,
		Now:       fixedNow,
	})
	require.NoError(t, err)

	sum, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Processed)
	assert.Equal(t, 1, sum.Analyzed)
	assert.Equal(t, filepath.Join(root, "analyzed", "flood_analysis_20251110_180000.json"), sum.OutputFile)

	batch := readBatch(t, sum.OutputFile)
	require.Len(t, batch, 1)
	got := batch[0]
	assert.Equal(t, "detik", got["source"])
	assert.Equal(t, "https://x", got["url"])
	assert.Equal(t, "T", got["title"])
	assert.Equal(t, "2025-11-10T10:43:00Z", got["published_time"])
	assert.Equal(t, "moderate", got["flood_severity"])
	assert.Equal(t, "2025-11-09", got["flood_time"])
	assert.Equal(t, []any{map[string]any{"regency": "Bandung", "province": "West Java"}}, got["affected_areas"])

	require.Len(t, pub.events, 1)
	assert.Equal(t, publishers.KindFloodAnalysis, pub.events[0].Kind)
	assert.Equal(t, "detik", pub.events[0].Source)
}

func TestRunFallbackAndSkips(t *testing.T) {
	root := t.TempDir()
	writeArticles(t, filepath.Join(root, "kompas"), "b.json", []domain.Article{{URL: "https://k/2", Title: "Broken"}})
	writeArticles(t, filepath.Join(root, "kompas"), "a.json", []domain.Article{{URL: "https://k/1", Title: "Garbled"}})
	writeArticles(t, filepath.Join(root, "tribunnews"), "c.json", []domain.Article{{URL: "https://t/1", Title: "Partial"}})

	llm := &stubCompleter{
		answers: map[string]string{"Partial": `{"affected_areas": []}`},
		err:     map[string]error{"Broken": errors.New("rate limited")},
	}
	core, logs := observer.New(zapcore.DebugLevel)
	a, err := New(Options{
		InputDir:  root,
		OutputDir: filepath.Join(root, "out"),
		Completer: llm,
		Log:       logger.New(zap.New(core)),
		Now:       fixedNow,
	})
	require.NoError(t, err)

	sum, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 1, sum.Analyzed)

	batch := readBatch(t, sum.OutputFile)
	require.Len(t, batch, 1)
	fallback := batch[0]
	assert.Equal(t, "https://k/1", fallback["url"])
	assert.Equal(t, []any{}, fallback["affected_areas"])
	assert.Equal(t, "Unable to determine", fallback["flood_time"])
	assert.Nil(t, fallback["published_time"])
	assert.NotContains(t, fallback, "flood_severity")

	assert.Equal(t, 1, logs.FilterMessage("detik folder not found").Len())
	assert.Equal(t, 2, logs.FilterMessage("analyzing article failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("model answer is not JSON; using fallback analysis").Len())
}

func TestRunWithNoSourcesWritesEmptyBatch(t *testing.T) {
	root := t.TempDir()
	a, err := New(Options{InputDir: root, OutputDir: filepath.Join(root, "analyzed"), Completer: &stubCompleter{}, Now: fixedNow})
	require.NoError(t, err)

	sum, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.Processed)
	assert.Empty(t, readBatch(t, sum.OutputFile))
}

func TestRunCancelledStillWritesBatch(t *testing.T) {
	root := t.TempDir()
	writeArticles(t, filepath.Join(root, "detik"), "a.json", []domain.Article{{URL: "https://x", Title: "T"}})
	llm := &stubCompleter{}
	a, err := New(Options{InputDir: root, OutputDir: filepath.Join(root, "analyzed"), Completer: llm, Now: fixedNow})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := a.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, llm.prompts)
	assert.FileExists(t, sum.OutputFile)
}

func TestLoadArticlesFlattensSortedFiles(t *testing.T) {
	dir := t.TempDir()
	writeArticles(t, dir, "b.json", []domain.Article{{URL: "b1"}})
	writeArticles(t, dir, "a.json", []domain.Article{{URL: "a1"}, {URL: "a2"}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	arts, err := LoadArticles(dir)
	require.NoError(t, err)
	require.Len(t, arts, 3)
	assert.Equal(t, []string{"a1", "a2", "b1"}, []string{arts[0].URL, arts[1].URL, arts[2].URL})
}

func TestLoadArticlesRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))
	_, err := LoadArticles(dir)
	assert.Error(t, err)
}

func TestNewRequiresCompleter(t *testing.T) {
	_, err := New(Options{OutputDir: "out"})
	assert.Error(t, err)
}
