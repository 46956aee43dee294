package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyTTL = 24 * time.Hour
	// PendingTTL bounds a reservation whose checkout never finished. It must
	// outlive the checkout handler timeout.
	PendingTTL         = 30 * time.Second
	idempotencyPending = "pending"
)

// IdempotencyStore remembers which order a (user, Idempotency-Key) pair produced.
type IdempotencyStore struct {
	client     Client
	ttl        time.Duration
	pendingTTL time.Duration
}

func NewIdempotencyStore(client Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: IdempotencyTTL, pendingTTL: PendingTTL}
}

func idempotencyKey(userID, key string) string {
	return "idempotency:checkout:" + userID + ":" + key
}

// Reserve claims the key. When it was already claimed, orderID holds the
// stored order id, or "" while the first request is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, userID, key string) (orderID string, reserved bool, err error) {
	k := idempotencyKey(userID, key)

	ok, err := s.client.SetNX(ctx, k, idempotencyPending, s.pendingTTL).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// expired between SETNX and GET
		return s.Reserve(ctx, userID, key)
	case err != nil:
		return "", false, err
	case val == idempotencyPending:
		return "", false, nil
	}
	return val, false, nil
}

// Complete stores the order id for the full IdempotencyTTL.
func (s *IdempotencyStore) Complete(ctx context.Context, userID, key, orderID string) error {
	return s.client.Set(ctx, idempotencyKey(userID, key), orderID, s.ttl).Err()
}

// Release frees a reservation whose checkout failed so the client can retry.
func (s *IdempotencyStore) Release(ctx context.Context, userID, key string) error {
	return s.client.Del(ctx, idempotencyKey(userID, key)).Err()
}
