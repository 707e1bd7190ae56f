package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS configures CORS middleware for the given origins; "*" allows every origin.
// Credentials are allowed for explicit origins so browser hub clients can negotiate.
func SetupCORS(allowedOrigins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", USER_ID_HEADER, REQUEST_ID_HEADER, "X-Requested-With", "X-SignalR-User-Agent"},
		ExposeHeaders: []string{"Content-Length", REQUEST_ID_HEADER, "Retry-After"},
		MaxAge:        time.Hour,
	}

	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
		config.AllowCredentials = true
	}

	return cors.New(config)
}
