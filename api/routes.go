package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/podfeed/api/feeds"
	"github.com/killallgit/podfeed/api/health"
	"github.com/killallgit/podfeed/api/podcasts"
	"github.com/killallgit/podfeed/api/types"
	"github.com/killallgit/podfeed/api/version"
	_ "github.com/killallgit/podfeed/docs/swagger"
)

// RegisterRoutes registers all API routes. Library routes are only mounted
// when a podcast service is available.
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limiters *RateLimiters) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine)

	// Swagger documentation
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	v1 := engine.Group("/api/v1")

	rps, burst := 2.0, 5
	limitEnabled := true
	if cfg := deps.Config; cfg != nil {
		limitEnabled = cfg.RateLimiting.Enabled
		if cfg.RateLimiting.FeedsRPS > 0 {
			rps = cfg.RateLimiting.FeedsRPS
		}
		if cfg.RateLimiting.FeedsBurst > 0 {
			burst = cfg.RateLimiting.FeedsBurst
		}
	}

	feedLimit := func(c *gin.Context) { c.Next() }
	if limitEnabled {
		feedLimit = PerClientRateLimit(limiters, rps, burst)
	}

	if deps.FeedLoader != nil {
		feedGroup := v1.Group("/feeds")
		feedGroup.Use(feedLimit)
		feeds.RegisterRoutes(feedGroup, deps)
	} else {
		log.Printf("[WARN] no feed loader configured, /api/v1/feeds disabled")
	}

	if deps.PodcastService != nil {
		podcasts.RegisterRoutes(v1.Group("/podcasts"), deps, feedLimit)
	} else {
		log.Printf("[INFO] no podcast library configured, /api/v1/podcasts disabled")
	}

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
