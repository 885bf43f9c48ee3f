package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dittomusic-JK/promo-report-dashboard/models"
)

// Health returns a handler for GET /health.
//
// Browsers are launched per extraction call, so there is no pool to
// inspect; liveness plus uptime is the whole story.
func Health(startTime time.Time, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
		})
	}
}
