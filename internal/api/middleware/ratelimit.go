package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/adapter"
	apierrors "github.com/cardkeeper/card-indexer/internal/api/shared/errors"
	"github.com/cardkeeper/card-indexer/internal/logger"
)

const RATE_LIMIT_KEY_PREFIX = "card-indexer:api:limiter:"

// RateLimit limits requests per client to perMinute using the distributed limiter.
// Limiter failures let the request through.
func RateLimit(limiter adapter.RedisRateLimiter, name string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || perMinute <= 0 {
			c.Next()
			return
		}

		client := c.GetString(USER_ID_KEY)
		if client == "" {
			client = c.ClientIP()
		}
		key := fmt.Sprintf("%s%s:%s", RATE_LIMIT_KEY_PREFIX, name, client)

		res, err := limiter.Allow(c.Request.Context(), key, redis_rate.PerMinute(perMinute))
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed == 0 {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierrors.NewRateLimitedError("Too many requests"))
			return
		}

		c.Next()
	}
}
