package user

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/services"
)

func GetUser(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := accounts.Get(ctx, c.Param("id"))
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateUser(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			handlers.BadRequest(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		user, err := accounts.Update(ctx, c.Param("id"), input)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func DeleteUser(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := accounts.Delete(ctx, c.Param("id")); err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}

// UserProducts lists the products a user has put up for sale.
func UserProducts(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := catalog.ListByOwner(ctx, c.Param("id"))
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
