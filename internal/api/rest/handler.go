package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/api/middleware"
	"github.com/cardkeeper/card-indexer/internal/catalog"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/enrichment"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetEditions returns every edition printed with the code, annotated for the calling user.
	// Unknown codes enqueue a harvest and answer 202.
	// GET /api/v1/editions/:code?socket_id=<socket_id>
	GetEditions(c *gin.Context)

	// GetMarketplaceURL returns the marketplace product URL for a code, resolving it on demand
	// GET /api/v1/editions/:code/marketplace-url
	GetMarketplaceURL(c *gin.Context)

	// PutCollectionEntry records the calling user's count and wishlist flag for a code
	// PUT /api/v1/collection/:code
	PutCollectionEntry(c *gin.Context)

	// StartEnrichmentRun starts a background enrichment run
	// POST /api/v1/enrichment/runs
	StartEnrichmentRun(c *gin.Context)

	// GetLatestEnrichmentRun returns the report of the last finished enrichment run
	// GET /api/v1/enrichment/runs/latest
	GetLatestEnrichmentRun(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// HarvestQueuedResponse is returned when a read had to enqueue a harvest
type HarvestQueuedResponse struct {
	Status       string   `json:"status"`
	CardSetCode  string   `json:"cardSetCode"`
	CardSetNames []string `json:"cardSetNames"`
	SocketID     *string  `json:"socketId,omitempty"`
}

// MarketplaceURLResponse carries a resolved marketplace URL
type MarketplaceURLResponse struct {
	CardSetCode    string `json:"cardSetCode"`
	MarketplaceURL string `json:"marketplaceUrl"`
}

// CollectionEntryRequest is the body of PUT /collection/:code
type CollectionEntryRequest struct {
	Count    *int `json:"count" binding:"required"`
	Wishlist bool `json:"wishlist"`
}

// EnrichmentRunResponse is returned when a run was started
type EnrichmentRunResponse struct {
	RunID  string `json:"runId"`
	Status string `json:"status"`
}

// handler implements the Handler interface
type handler struct {
	debug   bool
	catalog catalog.Service
	batcher enrichment.Batcher

	// runCtx outlives requests so background runs are not cancelled with them
	runCtx context.Context
}

// NewHandler creates a new REST API handler. runCtx bounds background enrichment runs.
func NewHandler(debug bool, runCtx context.Context, catalogService catalog.Service, batcher enrichment.Batcher) Handler {
	return &handler{
		debug:   debug,
		catalog: catalogService,
		batcher: batcher,
		runCtx:  runCtx,
	}
}

func (h *handler) GetEditions(c *gin.Context) {
	code := catalog.NormalizeCode(c.Param("code"))
	if code == "" {
		respondBadRequest(c, "Edition code is required")
		return
	}

	ctx := c.Request.Context()
	editions, err := h.catalog.GetByCardSetCode(ctx, code, middleware.GetUserID(c))
	if err == nil {
		c.JSON(http.StatusOK, editions)
		return
	}
	if !errors.Is(err, domain.ErrEditionNotFound) {
		respondDomainError(c, err, "Failed to get editions")
		return
	}

	var socketID *string
	if s := strings.TrimSpace(c.Query("socket_id")); s != "" {
		socketID = &s
	}

	job, err := h.catalog.RequestHarvest(ctx, code, socketID)
	if err != nil {
		respondDomainError(c, err, "Failed to request harvest")
		return
	}

	c.JSON(http.StatusAccepted, HarvestQueuedResponse{
		Status:       "queued",
		CardSetCode:  job.CardSetCode,
		CardSetNames: job.CardSetNames,
		SocketID:     job.SocketID,
	})
}

func (h *handler) GetMarketplaceURL(c *gin.Context) {
	code := catalog.NormalizeCode(c.Param("code"))
	if code == "" {
		respondBadRequest(c, "Edition code is required")
		return
	}

	url, err := h.catalog.GetMarketplaceURL(c.Request.Context(), code)
	if err != nil {
		respondDomainError(c, err, "Failed to resolve marketplace URL")
		return
	}

	c.JSON(http.StatusOK, MarketplaceURLResponse{
		CardSetCode:    code,
		MarketplaceURL: url,
	})
}

func (h *handler) PutCollectionEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		respondUnauthorized(c)
		return
	}

	var req CollectionEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := h.catalog.SetCollectionEntry(c.Request.Context(), userID, c.Param("code"), *req.Count, req.Wishlist); err != nil {
		respondDomainError(c, err, "Failed to update collection")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) StartEnrichmentRun(c *gin.Context) {
	runID, err := h.batcher.Start(h.runCtx)
	if err != nil {
		respondDomainError(c, err, "Failed to start enrichment run")
		return
	}

	logger.InfoCtx(c.Request.Context(), "Enrichment run started", zap.String("runID", runID))

	c.JSON(http.StatusAccepted, EnrichmentRunResponse{
		RunID:  runID,
		Status: "started",
	})
}

func (h *handler) GetLatestEnrichmentRun(c *gin.Context) {
	report, err := h.batcher.LatestReport(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to get enrichment run")
		return
	}
	if report == nil {
		respondNotFound(c, "No enrichment run recorded")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "card-indexer-api",
	})
}
