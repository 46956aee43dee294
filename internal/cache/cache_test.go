package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

// countingRepo records how often the wrapped repository is reached.
type countingRepo struct {
	repository.ProductRepository
	getByID, getAll, getByCategory int
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.getByID++
	return r.ProductRepository.GetByID(ctx, id)
}

func (r *countingRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	r.getAll++
	return r.ProductRepository.GetAll(ctx)
}

func (r *countingRepo) GetByCategory(ctx context.Context, c, sc string) ([]models.Product, error) {
	r.getByCategory++
	return r.ProductRepository.GetByCategory(ctx, c, sc)
}

func newCachedRepo(t *testing.T) (*countingRepo, repository.ProductRepository, *MemoryClient) {
	t.Helper()
	inner := &countingRepo{ProductRepository: repository.NewMemoryStore().Products}
	client := NewMemoryClient()
	return inner, NewCachedProductRepository(inner, client), client
}

func TestCachedProductRepository_GetByIDReadsThrough(t *testing.T) {
	ctx := context.Background()
	inner, repo, _ := newCachedRepo(t)

	p := &models.Product{Name: "Chew Toy", Price: decimal.RequireFromString("4.50"), Category: "Dog Supplies", SubCategory: "Toys"}
	require.NoError(t, repo.Create(ctx, p))

	first, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.getByID)
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, second.Price.Equal(decimal.RequireFromString("4.50")))
}

func TestCachedProductRepository_CachesNotFound(t *testing.T) {
	ctx := context.Background()
	inner, repo, client := newCachedRepo(t)

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Equal(t, 1, inner.getByID)
	val, err := client.Get(ctx, "product:missing").Result()
	require.NoError(t, err)
	assert.Equal(t, "notfound", val)
}

func TestCachedProductRepository_CreateInvalidatesLists(t *testing.T) {
	ctx := context.Background()
	inner, repo, _ := newCachedRepo(t)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	dogs, err := repo.GetByCategory(ctx, "Dog Supplies", "Food")
	require.NoError(t, err)
	assert.Empty(t, dogs)

	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Kibble", Category: "Dog Supplies", SubCategory: "Food"}))

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	dogs, err = repo.GetByCategory(ctx, "Dog Supplies", "Food")
	require.NoError(t, err)
	assert.Len(t, dogs, 1)

	assert.Equal(t, 2, inner.getAll)
	assert.Equal(t, 2, inner.getByCategory)
}

func TestNewCachedProductRepository_NilClient(t *testing.T) {
	inner := repository.NewMemoryStore().Products
	assert.Same(t, inner, NewCachedProductRepository(inner, nil))
}

func TestIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore(NewMemoryClient())

	orderID, reserved, err := store.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Empty(t, orderID)

	orderID, reserved, err = store.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Empty(t, orderID, "pending reservation has no order yet")

	require.NoError(t, store.Complete(ctx, "u1", "k1", "order-1"))
	orderID, reserved, err = store.Reserve(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "order-1", orderID)

	_, reserved, err = store.Reserve(ctx, "u2", "k1")
	require.NoError(t, err)
	assert.True(t, reserved, "keys are scoped per user")

	require.NoError(t, store.Release(ctx, "u2", "k1"))
	_, reserved, err = store.Reserve(ctx, "u2", "k1")
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestIdempotencyPendingExpiresQuickly(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()
	now := time.Now()
	client.now = func() time.Time { return now }
	store := NewIdempotencyStore(client)

	_, reserved, err := store.Reserve(ctx, "u1", "crashed")
	require.NoError(t, err)
	require.True(t, reserved)
	ttl, err := client.TTL(ctx, idempotencyKey("u1", "crashed")).Result()
	require.NoError(t, err)
	assert.Equal(t, PendingTTL, ttl)

	now = now.Add(PendingTTL + time.Second)
	_, reserved, err = store.Reserve(ctx, "u1", "crashed")
	require.NoError(t, err)
	assert.True(t, reserved, "an abandoned reservation frees the key")

	require.NoError(t, store.Complete(ctx, "u1", "crashed", "order-9"))
	ttl, err = client.TTL(ctx, idempotencyKey("u1", "crashed")).Result()
	require.NoError(t, err)
	assert.Equal(t, IdempotencyTTL, ttl)
}

func TestIncrementRateLimit(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()

	for i := int64(1); i <= 3; i++ {
		n, err := IncrementRateLimit(ctx, client, "rl:test", 0)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	n, err := GetRateLimit(ctx, client, "rl:test")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = GetRateLimit(ctx, client, "rl:absent")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCartPublisher(t *testing.T) {
	client := newRecordingClient()
	pub := NewCartPublisher(client)

	err := pub.PublishCart(context.Background(), "u1", models.CartEvent{Type: models.CartCleared, Cart: map[string]int{}})
	require.NoError(t, err)

	msgs := client.Published(CartChannel("u1"))
	require.Len(t, msgs, 1)
	assert.JSONEq(t, `{"type":"cleared","cart":{},"total":0,"count":0}`, msgs[0])
}

func TestMemoryClientSweepsExpiredKeys(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()
	now := time.Now()
	client.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		require.NoError(t, client.SetNX(ctx, fmt.Sprintf("idempotency:%d", i), "pending", time.Second).Err())
	}
	require.NoError(t, client.Set(ctx, "kept", "v", 0).Err())

	now = now.Add(sweepInterval)
	require.NoError(t, client.SetNX(ctx, "fresh", "pending", time.Minute).Err())

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Len(t, client.entries, 2)
	assert.Contains(t, client.entries, "kept")
	assert.Contains(t, client.entries, "fresh")
}
