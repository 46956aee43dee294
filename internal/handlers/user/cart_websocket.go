package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"petshop_back_end/internal/cache"
	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/services"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CartWebSocket streams cart events for one user. The first frame is the
// current cart; every later frame is a CartEvent published on cart:<id>.
func CartWebSocket(rdb *redis.Client, carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "cart sync is unavailable"})
			return
		}

		userID := c.Param("id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		snapshot, err := carts.GetCart(ctx, userID)
		cancel()
		if err != nil {
			handlers.RespondError(c, err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		subCtx, stop := context.WithCancel(context.Background())
		defer stop()

		pubsub := rdb.Subscribe(subCtx, cache.CartChannel(userID))
		defer pubsub.Close()

		// Events published after the connected frame must reach this client.
		if _, err := pubsub.Receive(subCtx); err != nil {
			log.Printf("❌ Cart sync subscribe failed for %s: %v", userID, err)
			return
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(gin.H{"type": "connected", "cart": snapshot}); err != nil {
			return
		}

		// The read loop only notices the client going away.
		go func() {
			defer stop()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()

		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
					log.Printf("⚠️ Cart sync write failed for %s: %v", userID, err)
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-subCtx.Done():
				return
			}
		}
	}
}
