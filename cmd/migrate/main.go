package main

import (
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/config"
	"github.com/cardkeeper/card-indexer/internal/logger"
	"github.com/cardkeeper/card-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	down       = flag.Int("down", 0, "Roll back this many migrations instead of applying pending ones")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadMigrateConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	err = logger.Initialize(logger.Config{
		Debug:       cfg.Debug,
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Environment,
		Tags: map[string]string{
			"service": "migrate",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	databaseURL := cfg.Database.URL()
	if *down > 0 {
		if err := store.RollbackMigrations(databaseURL, cfg.MigrationsPath, *down); err != nil {
			logger.Fatal("Failed to roll back migrations", zap.Error(err))
		}
	} else {
		if err := store.RunMigrations(databaseURL, cfg.MigrationsPath); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	version, dirty, err := store.MigrationVersion(databaseURL, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to read migration version", zap.Error(err))
	}
	logger.Info("Database schema is current",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
}
