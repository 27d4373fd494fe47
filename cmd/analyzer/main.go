package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/berita-banjir/internal/app"
	"github.com/Adda-Baaj/berita-banjir/internal/config"
	"github.com/Adda-Baaj/berita-banjir/internal/logger"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", config.ErrMissingAPIKey)
		} else {
			fmt.Fprintf(os.Stderr, "analyzer failed: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runtime, err := app.NewAnalyzer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer runtime.Close()

	sum, err := runtime.Run(ctx)
	if sum.OutputFile != "" {
		fmt.Println("Analysis Summary:")
		fmt.Printf("Total articles processed: %d\n", sum.Processed)
		fmt.Printf("Successfully analyzed articles: %d\n", sum.Analyzed)
		fmt.Printf("\nResults saved to: %s\n", sum.OutputFile)
	}
	if err != nil {
		return fmt.Errorf("analyzer run: %w", err)
	}
	return nil
}
