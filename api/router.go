package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wishhunt/wishsense/api/handler"
	"github.com/wishhunt/wishsense/api/middleware"
	"github.com/wishhunt/wishsense/cache"
	"github.com/wishhunt/wishsense/config"
	"github.com/wishhunt/wishsense/imagefetch"
	"github.com/wishhunt/wishsense/storage"
	"github.com/wishhunt/wishsense/textstore"
	"github.com/wishhunt/wishsense/vision"
	"github.com/wishhunt/wishsense/wish"
)

// Deps bundles the constructed components the handlers close over.
type Deps struct {
	Store          *textstore.Store
	WishAnalyzer   *wish.Analyzer
	VisionAnalyzer *vision.Analyzer
	Cache          *cache.Cache
	Fetcher        *imagefetch.Fetcher
	Storage        *storage.Client
	StartTime      time.Time
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → CORS
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	v1 := r.Group("/api/v1")

	// Health, no auth required.
	v1.GET("/health", handler.Health(d.WishAnalyzer, d.VisionAnalyzer, d.StartTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Page parsing.
	protected.POST("/parse", handler.Parse(d.Cache, d.Fetcher))

	// Wish text: submit now, read/analyze later.
	protected.POST("/wish", handler.SubmitWish(d.Store))
	protected.GET("/wish/:id", handler.GetWish(d.Store, d.WishAnalyzer))

	// Image analysis.
	protected.POST("/image", handler.AnalyzeImage(d.VisionAnalyzer, d.Storage))

	return r
}
