package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	"github.com/cardkeeper/card-indexer/internal/api/middleware"
)

// RateLimitConfig holds per-minute limits for the routes that start background work
type RateLimitConfig struct {
	HarvestPerMinute    int
	EnrichmentPerMinute int
}

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, limiter adapter.RedisRateLimiter, limits RateLimitConfig) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.UserID())
	{
		// Edition reads may enqueue a harvest job
		v1.GET("/editions/:code",
			middleware.RateLimit(limiter, "editions", limits.HarvestPerMinute),
			handler.GetEditions)
		v1.GET("/editions/:code/marketplace-url",
			middleware.RateLimit(limiter, "marketplace-url", limits.EnrichmentPerMinute),
			handler.GetMarketplaceURL)

		// Collection endpoints
		v1.PUT("/collection/:code", handler.PutCollectionEntry)

		// Enrichment endpoints
		v1.POST("/enrichment/runs",
			middleware.RateLimit(limiter, "enrichment", limits.EnrichmentPerMinute),
			handler.StartEnrichmentRun)
		v1.GET("/enrichment/runs/latest", handler.GetLatestEnrichmentRun)
	}
}
