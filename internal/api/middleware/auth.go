package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	apiKeyHeader = "X-API-Key"
	bearerPrefix = "bearer"
)

// APIKeyAuth accepts a request when X-API-Key or "Authorization: Bearer <key>"
// matches apiKey. An empty apiKey disables the check.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		if keyMatches(c.GetHeader(apiKeyHeader), apiKey) || keyMatches(bearerToken(c.GetHeader("Authorization")), apiKey) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or missing API key"})
	}
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) {
		return ""
	}
	return parts[1]
}

func keyMatches(given, expected string) bool {
	if given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
