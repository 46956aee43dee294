package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ProductCacheTTL  = 5 * time.Minute
	NotFoundCacheTTL = time.Minute

	keyAllProducts = "products:all"
	notFoundMarker = "notfound"
)

func productKey(id string) string {
	return "product:" + id
}

func categoryKey(category, subCategory string) string {
	return fmt.Sprintf("products:category:%s:%s", category, subCategory)
}

// getJSON reports whether key held a decodable value. Redis errors are logged
// and treated as a miss.
func getJSON(ctx context.Context, c Client, key string, dest interface{}) bool {
	data, err := c.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(data, dest); err != nil {
			log.Printf("⚠️ Failed to unmarshal cached %s (continuing with DB): %v", key, err)
			return false
		}
		return true
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("⚠️ Redis error on %s (continuing with DB): %v", key, err)
	}
	return false
}

func setJSON(ctx context.Context, c Client, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("⚠️ Failed to marshal %s: %v", key, err)
		return
	}
	if err := c.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("⚠️ Failed to cache %s: %v", key, err)
	}
}

func del(ctx context.Context, c Client, keys ...string) {
	if err := c.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Failed to delete cache keys %v: %v", keys, err)
	}
}
