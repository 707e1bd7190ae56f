package rest

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cardkeeper/card-indexer/internal/api/middleware"
	apierrors "github.com/cardkeeper/card-indexer/internal/api/shared/errors"
	"github.com/cardkeeper/card-indexer/internal/domain"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

// respond writes the error with the status of its code
func respond(c *gin.Context, apiErr *apierrors.APIError) {
	c.JSON(apiErr.Status(), apiErr)
}

func respondBadRequest(c *gin.Context, message string, details ...string) {
	respond(c, apierrors.New(apierrors.ErrCodeBadRequest, message, details...))
}

func respondNotFound(c *gin.Context, message string) {
	respond(c, apierrors.New(apierrors.ErrCodeNotFound, message))
}

func respondValidationError(c *gin.Context, details string) {
	respond(c, apierrors.New(apierrors.ErrCodeValidationFailed, "Validation failed", details))
}

func respondConflict(c *gin.Context, message string) {
	respond(c, apierrors.New(apierrors.ErrCodeConflict, message))
}

// respondServiceError responds 502 for upstream failures
func respondServiceError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err)
	respond(c, apierrors.New(apierrors.ErrCodeServiceError, message))
}

func respondInternalError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err)
	respond(c, apierrors.NewInternalError(message))
}

// respondDomainError maps a service error onto the matching HTTP response
func respondDomainError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrEditionNotFound):
		respondNotFound(c, "Edition not found")
	case errors.Is(err, domain.ErrSetNotFound):
		respondNotFound(c, "Card set not found")
	case errors.Is(err, domain.ErrMarketplaceURLNotFound):
		respondNotFound(c, "Marketplace URL not found")
	case errors.Is(err, domain.ErrRunInProgress):
		respondConflict(c, "Enrichment run already in progress")
	default:
		switch domain.KindOf(err) {
		case domain.ErrorKindValidation:
			respondValidationError(c, err.Error())
		case domain.ErrorKindTransient, domain.ErrorKindExternal, domain.ErrorKindSchema:
			respondServiceError(c, err, message)
		default:
			respondInternalError(c, err, message)
		}
	}
}

// respondUnauthorized responds when the request carries no user id
func respondUnauthorized(c *gin.Context) {
	respond(c, apierrors.New(apierrors.ErrCodeUnauthorized, "Missing "+middleware.USER_ID_HEADER+" header"))
}
