package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/cache"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

func tooManyRequests(c *gin.Context, message string, retryAfter time.Duration) {
	c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"message":     message,
		"retry_after": int(retryAfter.Seconds()),
	})
}

// inCooldown reports the remaining cooldown at key, if any.
func inCooldown(c *gin.Context, client cache.Client, key string) (time.Duration, bool) {
	ttl, err := client.TTL(c.Request.Context(), key).Result()
	if err != nil {
		log.Printf("⚠️ Rate limit check failed: %v", err)
		return 0, false
	}
	return ttl, ttl > 0
}

// LoginRateLimit locks an email for LoginCooldown after LoginMaxAttempts failed logins.
// It is a no-op without Redis.
func LoginRateLimit(client cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))
		key := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email

		if ttl, blocked := inCooldown(c, client, cooldownKey); blocked {
			tooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d minutes", int(ttl.Minutes())+1), ttl)
			return
		}

		c.Next()

		ctx := c.Request.Context()
		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			attempts, err := cache.IncrementRateLimit(ctx, client, key, LoginCooldown)
			if err != nil {
				log.Printf("⚠️ Rate limit increment failed: %v", err)
				return
			}
			if attempts >= LoginMaxAttempts {
				client.Set(ctx, cooldownKey, "1", LoginCooldown)
				client.Del(ctx, key)
				log.Printf("🔒 Login locked for %s", email)
			}
		case http.StatusOK:
			client.Del(ctx, key, cooldownKey)
		}
	}
}

// RegisterRateLimit allows RegisterMaxAttempts registrations per IP per RegisterCooldown.
// It is a no-op without Redis.
func RegisterRateLimit(client cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "register_attempts:" + c.ClientIP()

		count, err := cache.GetRateLimit(ctx, client, key)
		if err != nil {
			log.Printf("⚠️ Rate limit check failed: %v", err)
		} else if count >= RegisterMaxAttempts {
			ttl, _ := client.TTL(ctx, key).Result()
			if ttl <= 0 {
				ttl = RegisterCooldown
			}
			tooManyRequests(c, fmt.Sprintf("Too many registrations. Try again in %d minutes", int(ttl.Minutes())+1), ttl)
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			if _, err := cache.IncrementRateLimit(ctx, client, key, RegisterCooldown); err != nil {
				log.Printf("⚠️ Rate limit increment failed: %v", err)
			}
		}
	}
}
