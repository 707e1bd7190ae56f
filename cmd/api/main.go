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
	"github.com/cardkeeper/card-indexer/internal/api/rest"
	"github.com/cardkeeper/card-indexer/internal/api/server"
	"github.com/cardkeeper/card-indexer/internal/catalog"
	"github.com/cardkeeper/card-indexer/internal/config"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/enrichment"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/notifier"
	"github.com/cardkeeper/card-indexer/internal/providers/cardinfo"
	jsprovider "github.com/cardkeeper/card-indexer/internal/providers/jetstream"
	"github.com/cardkeeper/card-indexer/internal/providers/marketplace"
	"github.com/cardkeeper/card-indexer/internal/ratelimit"
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
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	// Cancelled on shutdown; also bounds enrichment runs started over HTTP
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		Environment:     cfg.Environment,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting card indexer API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, store.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize adapters
	dataStore := store.NewPGStore(db)
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	natsJS := adapter.NewNatsJetStream()
	redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WarnCtx(ctx, "Redis unavailable, serving without cache", zap.Error(err))
	}

	// Card info client, throttled against the budget shared with the harvest workers
	var rateLimitProxy ratelimit.Proxy
	if cfg.CardInfo.RateLimit.RequestsPerSecond > 0 {
		rateLimitProxy, err = ratelimit.NewProxy(cfg.RateLimiter.WithProvider(cardinfo.PROVIDER_NAME, cfg.CardInfo.RateLimit), redisClient, clock)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
		}
		defer func() { _ = rateLimitProxy.Close() }()
	}
	cardInfoClient := cardinfo.NewClient(adapter.NewHTTPClient(cfg.CardInfo.HTTPTimeout, adapter.HTTPRetryConfig{}), rateLimitProxy, cfg.CardInfo.APIURL)

	// Job publisher
	natsConfig := jsprovider.Config{
		URL:             cfg.NATS.URL,
		StreamName:      cfg.NATS.StreamName,
		JobsSubject:     cfg.NATS.JobsSubject,
		MaxReconnects:   cfg.NATS.MaxReconnects,
		ReconnectWait:   cfg.NATS.ReconnectWait,
		ConnectionName:  cfg.NATS.ConnectionName,
		DuplicateWindow: cfg.NATS.DuplicateWindow,
	}
	publisher, err := jsprovider.NewPublisher(ctx, natsConfig, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Enrichment batcher; runs are single-flight per process
	batcher := enrichment.NewBatcher(enrichment.Config{
		BatchSize:      cfg.Enrichment.BatchSize,
		MaxAttempts:    cfg.Enrichment.MaxAttempts,
		RetryBaseDelay: cfg.Enrichment.RetryBaseDelay,
		BatchPause:     cfg.Enrichment.BatchPause,
	},
		dataStore,
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
		clock,
		jsonAdapter,
	)

	catalogService := catalog.NewService(catalog.Config{CacheTTL: cfg.Redis.CacheTTL},
		dataStore, cardInfoClient, publisher, batcher, redisClient, jsonAdapter)

	// SignalR hub and the relay feeding it completion messages
	registry := notifier.NewRegistry()
	hubServer, err := adapter.NewSignalR().NewServer(ctx, notifier.NewHub(registry), cfg.Notifier.KeepAliveInterval)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create SignalR hub", zap.Error(err))
	}

	relayConn, relayJS, err := natsJS.Connect(cfg.NATS.URL, jsprovider.ConnectOptions(jsprovider.Config{
		ConnectionName: cfg.NATS.ConnectionName + "-relay",
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
	})...)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect relay to NATS", zap.Error(err))
	}
	defer relayConn.Close()

	instanceID := cfg.Notifier.InstanceID
	if instanceID == "" {
		if instanceID, err = os.Hostname(); err != nil {
			logger.FatalCtx(ctx, "Failed to resolve instance id", zap.Error(err))
		}
	}
	relay := notifier.NewRelay(notifier.RelayConfig{
		StreamName:        cfg.NATS.StreamName,
		FinishedSubject:   domain.FinishedSubject(cfg.NATS.JobsSubject),
		ConsumerName:      cfg.Notifier.RelayConsumerName,
		InstanceID:        instanceID,
		InactiveThreshold: cfg.Notifier.InactiveThreshold,
		AckWaitTimeout:    cfg.NATS.AckWait,
		MaxDeliver:        cfg.NATS.MaxDeliver,
	}, relayJS, notifier.NewNotifier(hubServer.Clients(), registry), jsonAdapter)

	// Create server config
	serverConfig := server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RateLimit: rest.RateLimitConfig{
			HarvestPerMinute:    cfg.Server.RateLimitPerMinute,
			EnrichmentPerMinute: cfg.Server.RateLimitPerMinute,
		},
		HubPath: cfg.Notifier.HubPath,
	}

	srv := server.New(serverConfig, catalogService, batcher, hubServer, redisClient.NewRateLimiter())

	// Start server and relay in goroutines
	errCh := make(chan error, 2)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("relay stopped: %w", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
