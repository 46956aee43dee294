package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

// sweepInterval spaces out full scans for expired entries.
const sweepInterval = time.Minute

// MemoryClient is an in-process Client. It backs idempotency keys when Redis
// is not configured and stands in for Redis in tests.
type MemoryClient struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	// published is nil unless a test records Publish calls.
	published map[string][]string
	now       func() time.Time
	lastSweep time.Time
}

var _ Client = (*MemoryClient)(nil)

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// lookup must be called with mu held.
func (m *MemoryClient) lookup(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if ok && !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, ok
}

// sweep drops expired entries at most once per sweepInterval. Called with mu held.
func (m *MemoryClient) sweep() {
	now := m.now()
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for k, e := range m.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
}

func (m *MemoryClient) expiry(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}
	return m.now().Add(d)
}

func (m *MemoryClient) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key)
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(e.value, nil)
}

func (m *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.entries[key] = memoryEntry{value: toString(value), expires: m.expiry(expiration)}
	return redis.NewStatusResult("OK", nil)
}

func (m *MemoryClient) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	if _, ok := m.lookup(key); ok {
		return redis.NewBoolResult(false, nil)
	}
	m.entries[key] = memoryEntry{value: toString(value), expires: m.expiry(expiration)}
	return redis.NewBoolResult(true, nil)
}

func (m *MemoryClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, k := range keys {
		if _, ok := m.lookup(k); ok {
			delete(m.entries, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *MemoryClient) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, _ := m.lookup(key)
	n := int64(0)
	if e.value != "" {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return redis.NewIntResult(0, fmt.Errorf("ERR value is not an integer"))
		}
		n = parsed
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	m.entries[key] = e
	return redis.NewIntResult(n, nil)
}

func (m *MemoryClient) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key)
	if !ok {
		return redis.NewBoolResult(false, nil)
	}
	e.expires = m.expiry(expiration)
	m.entries[key] = e
	return redis.NewBoolResult(true, nil)
}

func (m *MemoryClient) TTL(_ context.Context, key string) *redis.DurationCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key)
	switch {
	case !ok:
		return redis.NewDurationResult(-2, nil)
	case e.expires.IsZero():
		return redis.NewDurationResult(-1, nil)
	}
	return redis.NewDurationResult(e.expires.Sub(m.now()), nil)
}

func (m *MemoryClient) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.published != nil {
		m.published[channel] = append(m.published[channel], toString(message))
	}
	return redis.NewIntResult(0, nil)
}
