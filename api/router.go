package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sasangkyoo/slap/api/handler"
	"github.com/sasangkyoo/slap/api/middleware"
	"github.com/sasangkyoo/slap/cache"
	"github.com/sasangkyoo/slap/capture"
	"github.com/sasangkyoo/slap/config"
	"github.com/sasangkyoo/slap/llm"
	"github.com/sasangkyoo/slap/storage"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(capt *capture.Capturer, store *storage.Store, insight *llm.Client, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(capt, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Inspect
	protected.POST("/inspect", handler.Inspect(capt, store, insight, cc))

	// Run history
	protected.GET("/runs", handler.ListRuns(store))
	protected.GET("/runs/:id", handler.GetRun(store))
	protected.GET("/runs/:id/report", handler.GetReport(store))

	return r
}
