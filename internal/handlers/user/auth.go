package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/models"
	"petshop_back_end/internal/services"
	"petshop_back_end/internal/utils"
)

// setToken returns a bearer token in the Authorization response header.
func setToken(c *gin.Context, user *models.User, secret string) {
	token, err := utils.GenerateJWT(*user, secret)
	if err != nil {
		log.Printf("⚠️ Token generation failed for %s: %v", user.ID, err)
		return
	}
	c.Header("Authorization", "Bearer "+token)
}

func Register(accounts *services.AccountService, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			handlers.BadRequest(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		user, err := accounts.Register(ctx, input)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		setToken(c, user, secret)
		c.JSON(http.StatusCreated, user)
	}
}

func Login(accounts *services.AccountService, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			handlers.BadRequest(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		user, err := accounts.Login(ctx, input.Email, input.Password)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		setToken(c, user, secret)
		c.JSON(http.StatusOK, user)
	}
}
