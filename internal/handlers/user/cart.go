package user

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/middleware"
	"petshop_back_end/internal/services"
)

type cartInput struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

// bindCart falls back to the bearer identity when the body has no userId.
func bindCart(c *gin.Context) (cartInput, bool) {
	var input cartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, err)
		return input, false
	}
	if input.UserID == "" {
		input.UserID = middleware.UserID(c)
	}
	return input, true
}

func AddToCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, ok := bindCart(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := carts.AddToCart(ctx, input.UserID, input.ProductID)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func RemoveFromCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, ok := bindCart(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := carts.RemoveFromCart(ctx, input.UserID, input.ProductID)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func GetCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		view, err := carts.GetCart(ctx, c.Param("id"))
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
