package handler

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/wishhunt/wishsense/models"
	"github.com/wishhunt/wishsense/textstore"
	"github.com/wishhunt/wishsense/wish"
)

// SubmitWish returns a handler for POST /api/v1/wish.
//
// Stores the wish text under a fresh opaque id; the analysis happens later,
// on GET, so a slow inference provider never blocks submission.
func SubmitWish(store *textstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.WishSubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		if utf8.RuneCountInString(req.Text) > models.MaxWishTextLen {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "text exceeds 2000 characters",
				},
			})
			return
		}

		entry := store.Put(req.Text)
		c.JSON(http.StatusOK, models.WishSubmitResponse{
			ID:        entry.ID,
			ExpiresAt: entry.ExpiresAt.Unix(),
		})
	}
}

// GetWish returns a handler for GET /api/v1/wish/:id.
//
// An expired entry reports not-found even when its cleanup timer has not
// fired yet. With analyze=true the stored text also runs through the
// wish analyzer.
func GetWish(store *textstore.Store, analyzer *wish.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, ok := store.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeNotFound,
					Message: "text not found or expired",
				},
			})
			return
		}

		resp := models.WishGetResponse{Text: entry.Text}
		if c.Query("analyze") == "true" {
			record := analyzer.Analyze(c.Request.Context(), entry.Text)
			resp.Record = &record
		}
		c.JSON(http.StatusOK, resp)
	}
}
