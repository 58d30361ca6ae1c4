package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wishhunt/wishsense/models"
	"github.com/wishhunt/wishsense/storage"
	"github.com/wishhunt/wishsense/vision"
)

// AnalyzeImage returns a handler for POST /api/v1/image.
//
// The vision cascade itself never fails; with no providers configured the
// record simply comes back all-absent. The optional storage upload degrades
// to "no image URL" on any error.
func AnalyzeImage(analyzer *vision.Analyzer, store *storage.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.ImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ImageResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		inferenceStart := time.Now()
		record := analyzer.Analyze(c.Request.Context(), req.Image)
		inferenceMs := time.Since(inferenceStart).Milliseconds()

		resp := models.ImageResponse{
			Success: true,
			Record:  record,
		}

		if req.Upload && store != nil && store.Enabled() {
			if data, contentType, ok := decodeImage(req.Image); ok {
				path := uuid.NewString() + extensionFor(contentType)
				publicURL, err := store.Upload(c.Request.Context(), path, data, contentType)
				if err != nil {
					slog.Warn("image upload failed", "error", err)
				} else {
					resp.ImageURL = publicURL
				}
			}
		}

		resp.Timing = models.TimingInfo{
			TotalMs:     time.Since(totalStart).Milliseconds(),
			InferenceMs: inferenceMs,
		}
		c.JSON(http.StatusOK, resp)
	}
}

// decodeImage turns the request payload (bare base64 or a data URI) back
// into raw bytes plus a content type when the URI carries one.
func decodeImage(payload string) ([]byte, string, bool) {
	contentType := ""
	if strings.HasPrefix(payload, "data:") {
		rest := strings.TrimPrefix(payload, "data:")
		meta, b64, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", false
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		payload = b64
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", false
	}
	return data, contentType, true
}

// extensionFor picks a file extension for the storage object path.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
