package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wishhunt/wishsense/models"
	"github.com/wishhunt/wishsense/vision"
	"github.com/wishhunt/wishsense/wish"
)

// Health returns a handler for GET /api/v1/health.
//
// Reports which inference paths are live so operators can tell an all-absent
// record caused by missing credentials from one caused by a bad page.
func Health(wishAnalyzer *wish.Analyzer, visionAnalyzer *vision.Analyzer, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:          "healthy",
			Uptime:          time.Since(startTime).Round(time.Second).String(),
			Version:         "0.1.0",
			TextProvider:    wishAnalyzer.Configured(),
			VisionProviders: visionAnalyzer.ProviderCount(),
		})
	}
}
