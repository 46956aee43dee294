package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdminKey guards maintenance routes with the X-API-KEY header.
// With no key configured the routes are closed.
func RequireAdminKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin API is disabled"})
			return
		}
		given := c.GetHeader("X-API-KEY")
		if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid API key"})
			return
		}
		c.Next()
	}
}
