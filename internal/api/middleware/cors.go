package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAge = 12 * time.Hour

// CORS allows browser clients from any origin to call the API with either
// auth header.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", apiKeyHeader, requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        corsMaxAge,
	})
}
