package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows the configured origins (comma separated) plus the
// headers the API clients send.
func ConfigCORS(allowedDomains string) gin.HandlerFunc {
	origins := []string{}
	for _, domain := range strings.Split(allowedDomains, ",") {
		if trimmed := strings.TrimSpace(domain); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
