package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/handlers"
	"petshop_back_end/internal/services"
)

// Reconcile runs one orphaned-order sweep and reports what it repaired.
func Reconcile(r *services.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()

		report, err := r.ReconcileOrphans(ctx)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
