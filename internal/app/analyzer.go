package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/berita-banjir/internal/analyzer"
	"github.com/Adda-Baaj/berita-banjir/internal/config"
	"github.com/Adda-Baaj/berita-banjir/internal/logger"
	"github.com/Adda-Baaj/berita-banjir/pkg/llm"
	"github.com/Adda-Baaj/berita-banjir/pkg/publishers"
)

// Analyzer is the incident analysis runtime.
type Analyzer struct {
	analyzer *analyzer.Analyzer
	fanout   *publishers.Fanout
	log      logger.Logger
}

// NewAnalyzer validates the analyzer settings and wires the LLM client.
func NewAnalyzer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Analyzer, error) {
	if err := cfg.ValidateAnalyzer(); err != nil {
		return nil, err
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := llm.NewClient(llm.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	opts := analyzer.Options{
		InputDir:  cfg.AnalyzerInputDir,
		OutputDir: cfg.AnalyzerOutputDir,
		Completer: client,
		Log:       log,
	}
	if fanout.Size() > 0 {
		opts.Publisher = fanout
	}
	a, err := analyzer.New(opts)
	if err != nil {
		closeFanout(fanout, log)
		return nil, err
	}

	log.InfoObj("analyzer initialized", "analyzer_config", map[string]any{
		"model":      cfg.OpenAIModel,
		"input_dir":  cfg.AnalyzerInputDir,
		"output_dir": cfg.AnalyzerOutputDir,
		"publishers": fanout.Size(),
	})
	return &Analyzer{analyzer: a, fanout: fanout, log: log}, nil
}

// Run analyzes all scraped articles once.
func (a *Analyzer) Run(ctx context.Context) (analyzer.Summary, error) {
	if a == nil || a.analyzer == nil {
		return analyzer.Summary{}, fmt.Errorf("analyzer is not initialized")
	}
	start := time.Now()
	sum, err := a.analyzer.Run(ctx)
	a.log.InfoObj("analysis completed", "analysis_meta", map[string]any{
		"processed":  sum.Processed,
		"analyzed":   sum.Analyzed,
		"output":     sum.OutputFile,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return sum, err
}

// Close releases publisher clients.
func (a *Analyzer) Close() {
	if a == nil {
		return
	}
	closeFanout(a.fanout, a.log)
}
