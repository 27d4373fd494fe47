package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adda-Baaj/berita-banjir/internal/app"
	"github.com/Adda-Baaj/berita-banjir/internal/config"
	"github.com/Adda-Baaj/berita-banjir/internal/crawler"
	"github.com/Adda-Baaj/berita-banjir/internal/export"
	"github.com/Adda-Baaj/berita-banjir/internal/logger"
	"github.com/Adda-Baaj/berita-banjir/pkg/sites"
	"github.com/spf13/cobra"
)

const (
	msgUnsupportedSite = "Unsupported site or unable to determine site from URL."
	msgScrapeFailed    = "Failed to scrape the article."
	msgNoArticles      = "No articles were successfully scraped."
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, cleanup := newRootCmd()
	err := root.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scraper failed: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd returns the CLI and a cleanup func releasing whatever the
// executed command initialized.
func newRootCmd() (*cobra.Command, func()) {
	var runtime *app.Scraper

	root := &cobra.Command{
		Use:           "scraper",
		Short:         "News scraping tool for collecting articles from news websites.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logger.Init(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			runtime, err = app.NewScraper(cmd.Context(), cfg, log)
			if err != nil {
				logger.ErrorObj("failed to initialize scraper", "error", err.Error())
				return err
			}
			return nil
		},
	}

	root.AddCommand(
		newScrapeSingleCmd(func() *app.Scraper { return runtime }),
		newScrapeBulkCmd(func() *app.Scraper { return runtime }),
	)
	return root, func() {
		runtime.Close()
		_ = logger.Close()
	}
}

func newScrapeSingleCmd(runtime func() *app.Scraper) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "scrape-single URL",
		Aliases: []string{"scrape_single"},
		Short:   "Scrape a single article from the given URL.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			art, err := runtime().ScrapeSingle(cmd.Context(), args[0])
			if reportScrapeError(cmd.ErrOrStderr(), err) {
				return nil
			}
			if err != nil {
				return err
			}

			if output == "" {
				return export.WriteJSON(cmd.OutOrStdout(), art)
			}
			if err := export.WriteJSONFile(output, art); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Article saved to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (JSON)")
	return cmd
}

func newScrapeBulkCmd(runtime func() *app.Scraper) *cobra.Command {
	var (
		output string
		limit  int
	)
	cmd := &cobra.Command{
		Use:     "scrape-bulk BASE_URL",
		Aliases: []string{"scrape_bulk"},
		Short:   "Scrape multiple articles from the news website.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arts, err := runtime().ScrapeBulk(cmd.Context(), args[0], limit)
			if reportScrapeError(cmd.ErrOrStderr(), err) {
				return nil
			}
			if err != nil && len(arts) == 0 {
				return err
			}

			if output == "" {
				return export.WriteJSON(cmd.OutOrStdout(), arts)
			}
			path, werr := export.SaveBatch(output, "articles", time.Now(), arts)
			if werr != nil {
				return werr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Articles saved to %s\n", path)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory for JSON files")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Maximum number of articles to scrape")
	return cmd
}

// reportScrapeError prints the user-facing message for expected failures and
// reports whether err was one of them.
func reportScrapeError(w io.Writer, err error) bool {
	var msg string
	switch {
	case err == nil:
		return false
	case errors.Is(err, sites.ErrUnsupportedSite):
		msg = msgUnsupportedSite
	case errors.Is(err, crawler.ErrScrapeFailed):
		msg = msgScrapeFailed
	case errors.Is(err, crawler.ErrNoArticles):
		msg = msgNoArticles
	default:
		return false
	}
	fmt.Fprintln(w, msg)
	return true
}
