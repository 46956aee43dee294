package middleware

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/utils"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// Identity reads an optional bearer token. A valid token puts user_id and
// email in the gin context. Requests without one, or with a bad one, continue
// anonymously.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := utils.ParseJWT(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			log.Printf("⚠️ Ignoring invalid bearer token: %v", err)
			c.Next()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// UserID returns the identity set by Identity, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
