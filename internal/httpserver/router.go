package httpserver

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/c0pper/data-driven-blog/internal/handlers"
	"github.com/c0pper/data-driven-blog/internal/metrics"
	"github.com/c0pper/data-driven-blog/internal/middleware"
	"github.com/c0pper/data-driven-blog/internal/state"
)

func NewRouter(st *state.AppState) *gin.Engine {
	cfg := st.GetConfig()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(st.Logger))
	r.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, st.Logger).Handler())
	}

	r.GET("/healthz", handlers.Health(st))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Auth(cfg.GatewayToken))
	{
		photos := api.Group("/immich/search/assets")
		photos.POST("", handlers.SearchAssets(st))
		photos.POST("/date/:date", handlers.SearchAssetsByDate(st))
		photos.POST("/analysis", handlers.AssetAnalysis(st))

		entries := api.Group("/journal-entries")
		entries.GET("", handlers.ListJournalEntries(st))
		entries.GET("/paginated", handlers.PaginatedJournalEntries(st))
		entries.GET("/date/:date", handlers.JournalEntriesByDate(st))
		entries.GET("/date-range", handlers.JournalEntriesByDateRange(st))
		entries.GET("/:id/tags", handlers.EntryTags(st))
		entries.POST("/:id/tags/:tag_id", handlers.AddTagToEntry(st))

		api.GET("/moods/logs", handlers.MoodLogs(st))
		api.GET("/tags", handlers.ListTags(st))
		api.GET("/tags/by-name/:name", handlers.TagByName(st))
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}
