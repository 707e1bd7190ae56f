package main

import (
	"context"
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
	"github.com/cardkeeper/card-indexer/internal/diagnostics"
	"github.com/cardkeeper/card-indexer/internal/harvester"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/parser"
	"github.com/cardkeeper/card-indexer/internal/providers/cardinfo"
	jsprovider "github.com/cardkeeper/card-indexer/internal/providers/jetstream"
	"github.com/cardkeeper/card-indexer/internal/providers/wiki"
	"github.com/cardkeeper/card-indexer/internal/ratelimit"
	"github.com/cardkeeper/card-indexer/internal/reconciler"
	"github.com/cardkeeper/card-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadHarvestWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		Environment:     cfg.Environment,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "harvest-worker",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting harvest worker")

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
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize adapters
	dataStore := store.NewPGStore(db)
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	natsJS := adapter.NewNatsJetStream()
	launcher := adapter.NewBrowserLauncher(adapter.BrowserOptions{
		ControlURL: cfg.Browser.ControlURL,
		Bin:        cfg.Browser.Bin,
		Headless:   cfg.Browser.Headless,
		Leakless:   cfg.Browser.Leakless,
	})
	httpClient := adapter.NewHTTPClient(cfg.CardInfo.HTTPTimeout, adapter.HTTPRetryConfig{})

	// Share the card info budget with every other process through Redis
	var rateLimitProxy ratelimit.Proxy
	if cfg.CardInfo.RateLimit.RequestsPerSecond > 0 {
		redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = redisClient.Close() }()

		rateLimitProxy, err = ratelimit.NewProxy(cfg.RateLimiter.WithProvider(cardinfo.PROVIDER_NAME, cfg.CardInfo.RateLimit), redisClient, clock)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
		}
		defer func() { _ = rateLimitProxy.Close() }()
	}

	cardInfoClient := cardinfo.NewClient(httpClient, rateLimitProxy, cfg.CardInfo.APIURL)
	fetcher := wiki.NewFetcher(wiki.Config{
		PageURLTemplate:   cfg.Wiki.PageURLTemplate,
		NavigationTimeout: cfg.Wiki.NavigationTimeout,
	}, launcher)
	sink := diagnostics.NewFileSink(cfg.Diagnostics.Dir, adapter.NewFileSystem(), jsonAdapter, clock)
	rec := reconciler.NewReconciler(cardInfoClient, dataStore, sink)

	// Create the completion publisher
	publisher, err := jsprovider.NewPublisher(ctx, jsprovider.Config{
		URL:             cfg.NATS.URL,
		StreamName:      cfg.NATS.StreamName,
		JobsSubject:     cfg.NATS.JobsSubject,
		MaxReconnects:   cfg.NATS.MaxReconnects,
		ReconnectWait:   cfg.NATS.ReconnectWait,
		ConnectionName:  cfg.NATS.ConnectionName + "-publisher",
		DuplicateWindow: cfg.NATS.DuplicateWindow,
	}, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Create the worker
	worker, err := harvester.NewWorker(harvester.Config{
		URL:                 cfg.NATS.URL,
		StreamName:          cfg.NATS.StreamName,
		JobsSubject:         cfg.NATS.JobsSubject,
		ConsumerName:        cfg.NATS.ConsumerName,
		MaxReconnects:       cfg.NATS.MaxReconnects,
		ReconnectWait:       cfg.NATS.ReconnectWait,
		ConnectionName:      cfg.NATS.ConnectionName,
		AckWaitTimeout:      cfg.NATS.AckWait,
		MaxDeliver:          cfg.NATS.MaxDeliver,
		DuplicateWindow:     cfg.NATS.DuplicateWindow,
		HeartbeatInterval:   cfg.NATS.HeartbeatInterval,
		Cooldown:            cfg.Harvester.Cooldown,
		MaxTransientRetries: cfg.Harvester.MaxTransientRetries,
	}, natsJS, fetcher, parser.NewParser(), rec, sink, publisher, clock, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create harvest worker", zap.Error(err))
	}
	defer worker.Close()

	// Run the worker in a goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- worker.Run(ctx)
	}()

	// Wait for interrupt signal to gracefully shutdown the worker
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()

		// The in-flight set is abandoned and its message redelivered
		select {
		case <-errCh:
		case <-time.After(30 * time.Second):
			logger.Warn("Harvest worker did not stop in time")
		}
	case err := <-errCh:
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "harvest-worker"))
		}
		cancel()
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("Harvest worker stopped")
}
