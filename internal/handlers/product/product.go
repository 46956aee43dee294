package product

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/services"
)

func GetAllProducts(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := catalog.ListAll(ctx)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		p, err := catalog.GetByID(ctx, c.Param("id"))
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func CreateProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			handlers.BadRequest(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		p, err := catalog.Create(ctx, input)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

type categoryQuery struct {
	Category    string `json:"category" form:"category"`
	SubCategory string `json:"subCategory" form:"subCategory"`
}

func listByCategory(c *gin.Context, catalog *services.CatalogService, q categoryQuery) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, err := catalog.ListByCategory(ctx, q.Category, q.SubCategory)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductsByCategory takes the filter in a JSON body.
func GetProductsByCategory(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q categoryQuery
		if err := c.ShouldBindJSON(&q); err != nil {
			handlers.BadRequest(c, err)
			return
		}
		listByCategory(c, catalog, q)
	}
}

// FilterProducts takes the filter from the query string.
func FilterProducts(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q categoryQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			handlers.BadRequest(c, err)
			return
		}
		listByCategory(c, catalog, q)
	}
}

func GetProductsByIDs(catalog *services.CatalogService) gin.HandlerFunc {
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

		products, err := catalog.ListByIDs(ctx, ids)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func SearchProducts(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := catalog.Search(ctx, c.Query("q"))
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
