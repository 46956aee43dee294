package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/models"
)

// GetAllCategories serves the storefront category table.
func GetAllCategories(c *gin.Context) {
	if slug := c.Query("slug"); slug != "" {
		cat, ok := models.CategoryBySlug(slug)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		c.JSON(http.StatusOK, cat)
		return
	}
	c.JSON(http.StatusOK, models.Categories)
}
