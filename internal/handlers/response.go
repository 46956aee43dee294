package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/repository"
	"petshop_back_end/internal/services"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateEmail), errors.Is(err, repository.ErrCheckoutInProgress):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrInvalidRequest), errors.Is(err, repository.ErrMissingOwner):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrImagesDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// RespondError writes {"message": err} with the mapped status.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

// BadRequest answers a body that could not be bound.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}
