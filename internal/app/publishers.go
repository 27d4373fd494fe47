package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Adda-Baaj/berita-banjir/internal/config"
	"github.com/Adda-Baaj/berita-banjir/internal/logger"
	"github.com/Adda-Baaj/berita-banjir/pkg/publishers"
)

// buildFanout loads the publishers file and builds every enabled publisher.
// A missing or unset file yields an empty fanout.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	log = logger.Ensure(log)
	path := strings.TrimSpace(cfg.PublishersFile)
	if path == "" {
		return publishers.NewFanout(nil), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.DebugObj("publishers file not found; publishing disabled", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})
	return publishers.NewFanout(pubClients), nil
}

func closeFanout(f *publishers.Fanout, log logger.Logger) {
	if err := f.Close(); err != nil {
		logger.Ensure(log).ErrorObj("publisher close failed", "error", err.Error())
	}
}
