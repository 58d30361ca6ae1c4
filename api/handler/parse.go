package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wishhunt/wishsense/cache"
	"github.com/wishhunt/wishsense/extract"
	"github.com/wishhunt/wishsense/imagefetch"
	"github.com/wishhunt/wishsense/models"
)

// Parse returns a handler for POST /api/v1/parse.
//
// Flow:
//  1. Parse & validate request (URL must be HTTPS).
//  2. Cache lookup when max_age is set.
//  3. Run the extraction pipeline over the renderer-supplied HTML; a panic
//     anywhere in the pipeline degrades to an all-absent record instead of
//     a bare failure.
//  4. Optionally download the resolved image as a base64 payload.
func Parse(cc *cache.Cache, fetcher *imagefetch.Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.ParseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ParseResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		if u, err := url.Parse(req.URL); err != nil || u.Scheme != "https" {
			c.JSON(http.StatusBadRequest, models.ParseResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "url must be an absolute https URL",
				},
			})
			return
		}

		cacheKey := cache.Key(req.URL)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				// Copy so the shared cached response is never mutated.
				out := *cached
				out.CacheStatus = "hit"
				out.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, out)
				return
			}
		}

		resolveStart := time.Now()
		record, degraded := safeResolve(req.HTML, req.URL)
		resolveMs := time.Since(resolveStart).Milliseconds()

		resp := models.ParseResponse{
			Success:  true,
			Record:   record,
			Degraded: degraded,
		}

		if req.FetchImage && record.Image != "" && fetcher != nil {
			data, _, err := fetcher.Fetch(c.Request.Context(), record.Image)
			if err != nil {
				// No image payload is a legitimate outcome, not a failure.
				slog.Warn("image download failed", "url", record.Image, "error", err)
			} else {
				resp.ImageB64 = base64.StdEncoding.EncodeToString(data)
			}
		}

		resp.Timing = models.TimingInfo{
			TotalMs:   time.Since(totalStart).Milliseconds(),
			ResolveMs: resolveMs,
		}

		if cc != nil && req.MaxAge > 0 && !degraded {
			snapshot := resp
			cc.Set(cacheKey, &snapshot)
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// safeResolve runs the extraction pipeline, converting an unexpected panic
// into a degraded all-absent record so callers can always render "unknown".
func safeResolve(rawHTML, pageURL string) (rec models.AttributeRecord, degraded bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("resolution pipeline failed unexpectedly", "url", pageURL, "panic", r)
			rec = models.UnknownRecord()
			rec.Link = pageURL
			degraded = true
		}
	}()
	return extract.Resolve(rawHTML, pageURL), false
}
