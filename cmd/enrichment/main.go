package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/config"
	"github.com/cardkeeper/card-indexer/internal/enrichment"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/providers/marketplace"
	"github.com/cardkeeper/card-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	code       = flag.String("code", "", "Resolve a single edition code instead of every edition missing a marketplace URL")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEnrichmentConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	// Interrupts cancel the run; finished editions stay persisted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		Environment:     cfg.Environment,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "enrichment",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, store.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	batcher := enrichment.NewBatcher(enrichment.Config{
		BatchSize:      cfg.Enrichment.BatchSize,
		MaxAttempts:    cfg.Enrichment.MaxAttempts,
		RetryBaseDelay: cfg.Enrichment.RetryBaseDelay,
		BatchPause:     cfg.Enrichment.BatchPause,
	},
		store.NewPGStore(db),
		marketplace.NewResolver(marketplace.Config{
			SearchURL:         cfg.Marketplace.SearchURL,
			SearchSelector:    cfg.Marketplace.SearchSelector,
			ProductPathMarker: cfg.Marketplace.ProductPathMarker,
			QueryParams:       cfg.Marketplace.QueryParams,
			NavigationTimeout: cfg.Marketplace.NavigationTimeout,
		}),
		adapter.NewBrowserLauncher(adapter.BrowserOptions{
			ControlURL: cfg.Browser.ControlURL,
			Bin:        cfg.Browser.Bin,
			Headless:   cfg.Browser.Headless,
			Leakless:   cfg.Browser.Leakless,
		}),
		adapter.NewClock(),
		adapter.NewJSON(),
	)

	if *code != "" {
		url, err := batcher.EnrichOne(ctx, *code)
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("code", *code))
			os.Exit(1)
		}
		logger.InfoCtx(ctx, "Marketplace URL resolved", zap.String("code", *code), zap.String("url", url))
		return
	}

	report, err := batcher.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorCtx(ctx, err, zap.String("component", "enrichment"))
		os.Exit(1)
	}
	if report != nil {
		logger.Info("Enrichment run finished",
			zap.String("runID", report.RunID),
			zap.Int("processed", report.Processed),
			zap.Int("succeeded", report.Succeeded),
			zap.Int("failed", report.Failed),
			zap.Strings("failedCodes", report.FailedCodes))
	}
}
