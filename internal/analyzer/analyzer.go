package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
	"github.com/Adda-Baaj/berita-banjir/internal/export"
	"github.com/Adda-Baaj/berita-banjir/internal/logger"
	"github.com/Adda-Baaj/berita-banjir/pkg/llm"
	"github.com/Adda-Baaj/berita-banjir/pkg/publishers"
)

// DefaultSources are the per-site folders read by a run.
var DefaultSources = []string{"detik", "kompas", "tribunnews"}

const outputPrefix = "flood_analysis"

// EventPublisher publishes analyzed articles downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Options configures an Analyzer.
type Options struct {
	InputDir  string
	OutputDir string
	Sources   []string
	Completer llm.Completer
	Publisher EventPublisher
	Log       logger.Logger
	Now       func() time.Time
}

// Summary reports the outcome of a run.
type Summary struct {
	Processed  int
	Analyzed   int
	OutputFile string
}

// Analyzer turns scraped articles into flood incident records.
type Analyzer struct {
	inputDir  string
	outputDir string
	sources   []string
	llm       llm.Completer
	publisher EventPublisher
	log       logger.Logger
	now       func() time.Time
}

// New builds an Analyzer. A Completer and an output directory are required.
func New(opts Options) (*Analyzer, error) {
	if opts.Completer == nil {
		return nil, errors.New("analyzer requires a completer")
	}
	if opts.OutputDir == "" {
		return nil, errors.New("analyzer requires an output directory")
	}
	sources := opts.Sources
	if len(sources) == 0 {
		sources = DefaultSources
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Analyzer{
		inputDir:  opts.InputDir,
		outputDir: opts.OutputDir,
		sources:   sources,
		llm:       opts.Completer,
		publisher: opts.Publisher,
		log:       logger.Ensure(opts.Log),
		now:       now,
	}, nil
}

// Run analyzes every article found in the source folders and writes the
// results to one timestamped batch file. Articles that fail are skipped.
// On cancellation the results gathered so far are still written.
func (a *Analyzer) Run(ctx context.Context) (Summary, error) {
	var (
		sum     Summary
		results = []domain.AnalyzedArticle{}
		runErr  error
	)

sources:
	for _, source := range a.sources {
		dir := filepath.Join(a.inputDir, source)
		if _, err := os.Stat(dir); err != nil {
			a.log.WarnObj(fmt.Sprintf("%s folder not found", source), "analyzer_source", map[string]any{
				"source": source,
				"dir":    dir,
			})
			continue
		}

		articles, err := LoadArticles(dir)
		if err != nil {
			a.log.ErrorObj("loading articles failed", "analyzer_error", map[string]any{
				"source": source,
				"error":  err.Error(),
			})
			continue
		}
		sum.Processed += len(articles)
		a.log.InfoObj("processing articles", "analyzer_source", map[string]any{
			"source":   source,
			"articles": len(articles),
		})

		for i, art := range articles {
			if err := ctx.Err(); err != nil {
				runErr = err
				break sources
			}
			a.log.DebugObj("analyzing article", "analyzer_progress", map[string]any{
				"source": source,
				"index":  i + 1,
				"total":  len(articles),
				"url":    art.URL,
			})

			res, err := a.Analyze(ctx, source, art)
			if err != nil {
				a.log.ErrorObj("analyzing article failed", "analyzer_error", map[string]any{
					"source": source,
					"url":    art.URL,
					"error":  err.Error(),
				})
				continue
			}
			results = append(results, res)
			a.publish(ctx, res)
		}
	}

	path, err := export.SaveBatch(a.outputDir, outputPrefix, a.now(), results)
	if err != nil {
		return sum, fmt.Errorf("write analysis batch: %w", err)
	}
	sum.Analyzed = len(results)
	sum.OutputFile = path
	return sum, runErr
}

// Analyze sends one article to the model and maps the answer onto it.
func (a *Analyzer) Analyze(ctx context.Context, source string, art domain.Article) (domain.AnalyzedArticle, error) {
	text, err := a.llm.Complete(ctx, Instructions, BuildPrompt(art.Title, art.Timestamp, art.Content))
	if err != nil {
		return domain.AnalyzedArticle{}, fmt.Errorf("llm completion: %w", err)
	}

	res, err := ParseAnalysis(text)
	if err != nil {
		return domain.AnalyzedArticle{}, err
	}
	if res.Fallback {
		a.log.WarnObj("model answer is not JSON; using fallback analysis", "analyzer_fallback", map[string]any{
			"source": source,
			"url":    art.URL,
		})
	}

	return domain.AnalyzedArticle{
		Source:        source,
		URL:           art.URL,
		Title:         art.Title,
		PublishedTime: res.PublishedTime,
		AffectedAreas: res.AffectedAreas,
		FloodSeverity: res.FloodSeverity,
		FloodTime:     res.FloodTime,
	}, nil
}

func (a *Analyzer) publish(ctx context.Context, res domain.AnalyzedArticle) {
	if a.publisher == nil {
		return
	}
	evt := publishers.NewEvent(publishers.KindFloodAnalysis, res.Source, res)
	if _, err := a.publisher.Publish(ctx, evt); err != nil {
		a.log.ErrorObj("analysis publish failed", "publish_error", map[string]any{
			"source": res.Source,
			"url":    res.URL,
			"error":  err.Error(),
		})
	}
}
