package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/models"
)

func newUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Sam", Email: email, Password: "hash"}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := newUser(t, s, "sam@example.com")
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, map[string]int{}, u.Cart)

	err := s.Users.Create(ctx, &models.User{Name: "Dup", Email: "SAM@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	byEmail, err := s.Users.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	other := newUser(t, s, "other@example.com")
	other.Email = "sam@example.com"
	assert.ErrorIs(t, s.Users.Update(ctx, other), ErrDuplicateEmail)

	u.Email = "samantha@example.com"
	require.NoError(t, s.Users.Update(ctx, u))
	_, err = s.Users.GetByEmail(ctx, "sam@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Users.Delete(ctx, u.ID))
	assert.ErrorIs(t, s.Users.Delete(ctx, u.ID), ErrNotFound)
}

func TestMemoryCart(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newUser(t, s, "sam@example.com")

	updated, err := s.Users.AddCartItem(ctx, u.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 1}, updated.Cart)

	updated, err = s.Users.AddCartItem(ctx, u.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 1}, updated.Cart)

	updated, err = s.Users.RemoveCartItem(ctx, u.ID, "p1")
	require.NoError(t, err)
	assert.Empty(t, updated.Cart)

	_, err = s.Users.AddCartItem(ctx, "missing", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryProducts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	food := &models.Product{Name: "Seed", Price: decimal.RequireFromString("3.50"), Category: "Bird Supplies", SubCategory: "Bird Food", UserID: "u1"}
	cage := &models.Product{Name: "Cage", Price: decimal.RequireFromString("80"), Category: "Bird Supplies", SubCategory: "Bird Cages", UserID: "u2"}
	require.NoError(t, s.Products.Create(ctx, food))
	require.NoError(t, s.Products.Create(ctx, cage))

	got, err := s.Products.GetByID(ctx, food.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("3.5")))

	list, err := s.Products.GetByCategory(ctx, "Bird Supplies", "Bird Food")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, food.ID, list[0].ID)

	list, err = s.Products.GetByCategory(ctx, "bird supplies", "Bird Food")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.Products.GetByIDs(ctx, []string{cage.ID, "nope"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cage.ID, list[0].ID)

	list, err = s.Products.GetByOwner(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, list, 1)

	all, err := s.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryPlaceOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newUser(t, s, "sam@example.com")
	_, err := s.Users.AddCartItem(ctx, u.ID, "p1")
	require.NoError(t, err)

	order := &models.Order{UserID: u.ID, Products: []string{"p1"}, TotalAmount: decimal.NewFromInt(5), Status: models.OrderStatusPending, CreatedAt: time.Now()}
	require.NoError(t, s.Orders.PlaceOrder(ctx, order))
	require.NotEmpty(t, order.ID)

	after, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Cart)
	assert.Equal(t, []string{order.ID}, after.Orders)

	err = s.Orders.PlaceOrder(ctx, &models.Order{UserID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Orders.UpdateStatus(ctx, order.ID, models.OrderStatusOrphaned))
	stored, err := s.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOrphaned, stored.Status)

	older, err := s.Orders.GetCreatedBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, older, 1)
}

func TestMemoryConcurrentCheckouts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := newUser(t, s, "sam@example.com")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Orders.PlaceOrder(ctx, &models.Order{UserID: u.ID, Status: models.OrderStatusPending, CreatedAt: time.Now()}))
		}()
	}
	wg.Wait()

	after, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, after.Orders, 20)

	orders, err := s.Orders.GetByIDs(ctx, after.Orders)
	require.NoError(t, err)
	assert.Len(t, orders, 20)
}
