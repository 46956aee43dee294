package user

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/middleware"
	"petshop_back_end/internal/services"
)

func PlaceOrder(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			UserID      string           `json:"userId"`
			Products    []string         `json:"products"`
			TotalAmount *decimal.Decimal `json:"totalAmount"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			handlers.BadRequest(c, err)
			return
		}
		if input.TotalAmount == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "totalAmount is required"})
			return
		}
		if input.UserID == "" {
			input.UserID = middleware.UserID(c)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, replayed, err := checkout.PlaceOrder(ctx, services.PlaceOrderInput{
			UserID:         input.UserID,
			Products:       input.Products,
			TotalAmount:    *input.TotalAmount,
			IdempotencyKey: c.GetHeader("Idempotency-Key"),
		})
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		if replayed {
			c.JSON(http.StatusOK, order)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// UserOrders returns the user's orders, populated.
func UserOrders(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := checkout.UserOrders(ctx, c.Param("id"))
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func OrdersByIDs(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			IDs json.RawMessage `json:"ids"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			handlers.BadRequest(c, err)
			return
		}
		ids, err := services.ParseIDList(input.IDs)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		orders, err := checkout.OrdersByIDs(ctx, ids)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
