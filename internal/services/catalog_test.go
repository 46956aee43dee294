package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/repository"
)

func TestCreateProduct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.user(t, "seller@b.c")

	p := h.product(t, owner.ID, "Kibble", "12.50", "Dog Supplies", "Food")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, owner.ID, p.UserID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.5")))

	reloaded, err := h.svc.Accounts.Get(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, reloaded.Products)

	mine, err := h.svc.Catalog.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.ID, mine[0].ID)
}

func TestCreateProductOwnerRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	in := CreateProductInput{Name: "Toy", Description: "d", Price: decimal.NewFromInt(1), Category: "Cat Supplies", SubCategory: "Toys"}

	_, err := h.svc.Catalog.Create(ctx, in)
	assert.ErrorIs(t, err, repository.ErrMissingOwner)

	in.UserID = "ghost"
	_, err = h.svc.Catalog.Create(ctx, in)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := h.svc.Catalog.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateProductValidation(t *testing.T) {
	h := newHarness(t)
	owner := h.user(t, "seller@b.c")

	_, err := h.svc.Catalog.Create(context.Background(), CreateProductInput{Name: "Toy", UserID: owner.ID})
	assert.ErrorIs(t, err, repository.ErrInvalidRequest)

	_, err = h.svc.Catalog.Create(context.Background(), CreateProductInput{
		Name: "Toy", Description: "d", Price: decimal.NewFromInt(-1),
		Category: "Cat Supplies", SubCategory: "Toys", UserID: owner.ID,
	})
	assert.ErrorIs(t, err, repository.ErrInvalidRequest)
}

func TestListByCategoryIsExact(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.user(t, "seller@b.c")

	food := h.product(t, owner.ID, "Kibble", "10", "Dog Supplies", "Food")
	h.product(t, owner.ID, "Ball", "3", "Dog Supplies", "Toys")
	h.product(t, owner.ID, "Tuna", "4", "Cat Supplies", "Food")

	got, err := h.svc.Catalog.ListByCategory(ctx, "Dog Supplies", "Food")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, food.ID, got[0].ID)

	got, err = h.svc.Catalog.ListByCategory(ctx, "dog supplies", "Food")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = h.svc.Catalog.ListByCategory(ctx, "Dog Supplies", "")
	assert.ErrorIs(t, err, repository.ErrInvalidRequest)
}

func TestListByIDs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.user(t, "seller@b.c")
	a := h.product(t, owner.ID, "A", "1", "Fish Supplies", "Food")
	h.product(t, owner.ID, "B", "2", "Fish Supplies", "Tanks")

	got, err := h.svc.Catalog.ListByIDs(ctx, []string{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = h.svc.Catalog.ListByIDs(ctx, []string{"nope", "also-nope"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = h.svc.Catalog.ListByIDs(ctx, []string{a.ID, "nope"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList(json.RawMessage(`["a", 3, "", "b", null]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	ids, err = ParseIDList(json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Empty(t, ids)

	for _, raw := range []string{``, `null`, `"a"`, `{"ids":[]}`, `[`} {
		_, err := ParseIDList(json.RawMessage(raw))
		assert.ErrorIs(t, err, repository.ErrInvalidRequest, raw)
	}
}

func TestSearchFallsBackToScan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.user(t, "seller@b.c")
	h.product(t, owner.ID, "Parrot Cage", "40", "Bird Supplies", "Cages")
	h.product(t, owner.ID, "Kibble", "10", "Dog Supplies", "Food")

	got, err := h.svc.Catalog.Search(ctx, "cage")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Parrot Cage", got[0].Name)

	h.svc.Catalog.search = &fakeIndex{err: errIndexDown}
	got, err = h.svc.Catalog.Search(ctx, "KIBBLE")
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = h.svc.Catalog.Search(ctx, "  ")
	assert.ErrorIs(t, err, repository.ErrInvalidRequest)
}

func TestSearchUsesIndexOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.user(t, "seller@b.c")
	index := &fakeIndex{}
	h.svc.Catalog.search = index

	a := h.product(t, owner.ID, "A", "1", "Reptile Supplies", "Food")
	b := h.product(t, owner.ID, "B", "1", "Reptile Supplies", "Habitats")
	assert.Equal(t, []string{a.ID, b.ID}, index.indexed)

	index.ids = []string{b.ID, "stale", a.ID}
	got, err := h.svc.Catalog.Search(ctx, "anything")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}
