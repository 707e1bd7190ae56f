package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/api/middleware"
	"github.com/cardkeeper/card-indexer/internal/api/rest"
	"github.com/cardkeeper/card-indexer/internal/catalog"
	"github.com/cardkeeper/card-indexer/internal/enrichment"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

const DEFAULT_HUB_PATH = "/hubs/notifications"

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	AllowedOrigins []string
	RateLimit      rest.RateLimitConfig
	HubPath        string
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	catalog    catalog.Service
	batcher    enrichment.Batcher
	hub        adapter.SignalRServer
	limiter    adapter.RedisRateLimiter
	httpServer *http.Server
}

// New creates a new API server. hub may be nil when notifications are disabled.
func New(cfg Config, catalogService catalog.Service, batcher enrichment.Batcher, hub adapter.SignalRServer, limiter adapter.RedisRateLimiter) *Server {
	if cfg.HubPath == "" {
		cfg.HubPath = DEFAULT_HUB_PATH
	}
	return &Server{
		config:  cfg,
		catalog: catalogService,
		batcher: batcher,
		hub:     hub,
		limiter: limiter,
	}
}

// Router builds the gin engine with every route mounted.
// runCtx bounds background work started by requests.
func (s *Server) Router(runCtx context.Context) *gin.Engine {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.AllowedOrigins))

	restHandler := rest.NewHandler(s.config.Debug, runCtx, s.catalog, s.batcher)
	rest.SetupRoutes(router, restHandler, s.limiter, s.config.RateLimit)

	// The hub serves its own negotiate and websocket endpoints
	if s.hub != nil {
		mux := http.NewServeMux()
		s.hub.MapHTTP(mux, s.config.HubPath)
		hubHandler := gin.WrapH(mux)
		router.Any(s.config.HubPath, hubHandler)
		router.Any(s.config.HubPath+"/negotiate", hubHandler)
	}

	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start(runCtx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(runCtx),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
		zap.String("hubPath", s.config.HubPath),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
