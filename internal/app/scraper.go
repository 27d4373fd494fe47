package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/berita-banjir/internal/config"
	"github.com/Adda-Baaj/berita-banjir/internal/crawler"
	"github.com/Adda-Baaj/berita-banjir/internal/logger"
	"github.com/Adda-Baaj/berita-banjir/internal/storage"
	"github.com/Adda-Baaj/berita-banjir/pkg/publishers"
	"github.com/Adda-Baaj/berita-banjir/pkg/sites"
)

// Scraper is the scraping runtime: the site table, the seen-article store
// and the publishers behind one crawler service.
type Scraper struct {
	*crawler.Service
	store  storage.Store
	fanout *publishers.Fanout
	log    logger.Logger
}

// NewScraper builds a scraping runtime from config.
func NewScraper(ctx context.Context, cfg *config.Config, log logger.Logger) (*Scraper, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	siteList, err := sites.LoadSites(cfg.SitesFile)
	if err != nil {
		return nil, fmt.Errorf("load sites: %w", err)
	}
	siteIDs := make([]string, 0, len(siteList))
	for _, s := range siteList {
		siteIDs = append(siteIDs, s.ID)
	}
	log.DebugObj("site table loaded", "sites_meta", map[string]any{
		"count": len(siteIDs),
		"ids":   siteIDs,
	})

	delay := time.Duration(cfg.RequestDelayMs) * time.Millisecond
	table, err := sites.NewTable(siteList, sites.TableOptions{
		Client:    sites.DefaultHTTPClient(cfg.HTTPTimeout),
		UserAgent: cfg.UserAgent,
		MaxPages:  cfg.MaxPages,
		Delay:     delay,
		Log:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("build site table: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		closeFanout(fanout, log)
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	opts := crawler.Options{Store: store, Delay: delay, Log: log}
	if fanout.Size() > 0 {
		opts.Publisher = fanout
	}
	svc, err := crawler.NewService(table, opts)
	if err != nil {
		store.Close()
		closeFanout(fanout, log)
		return nil, err
	}

	return &Scraper{
		Service: svc,
		store:   store,
		fanout:  fanout,
		log:     log,
	}, nil
}

// Close releases the store and publisher clients.
func (s *Scraper) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
	closeFanout(s.fanout, s.log)
}
