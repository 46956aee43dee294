package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/cache"
	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
	"petshop_back_end/internal/services"
)

type connectedFrame struct {
	Type string          `json:"type"`
	Cart models.CartView `json:"cart"`
}

func TestCartWebSocketStreamsUpdates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := repository.NewMemoryStore()
	svc := services.New(services.Deps{
		Store: store,
		Carts: cache.NewCartPublisher(cache.FromRedis(rdb)),
	})

	u, err := svc.Accounts.Register(ctx, services.RegisterInput{Name: "Sam", Email: "sam@example.com", Password: "pw"})
	require.NoError(t, err)
	product := &models.Product{Name: "Chew Rope", Price: decimal.RequireFromString("4.50"), Category: "dog", SubCategory: "toys"}
	require.NoError(t, store.Products.Create(ctx, product))

	r := gin.New()
	r.GET("/users/:id/cart/ws", CartWebSocket(rdb, svc.Carts))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/users/" + u.ID + "/cart/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var first connectedFrame
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "connected", first.Type)
	assert.Equal(t, u.ID, first.Cart.UserID)
	assert.Zero(t, first.Cart.Count)

	_, err = svc.Carts.AddToCart(ctx, u.ID, product.ID)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event models.CartEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, models.CartUpdated, event.Type)
	assert.Equal(t, map[string]int{product.ID: 1}, event.Cart)
	assert.Equal(t, 1, event.Count)
	assert.True(t, event.Total.Equal(decimal.RequireFromString("4.50")))
}

func TestCartWebSocketUnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := services.New(services.Deps{Store: repository.NewMemoryStore()})

	r := gin.New()
	r.GET("/users/:id/cart/ws", CartWebSocket(rdb, svc.Carts))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/users/missing/cart/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
