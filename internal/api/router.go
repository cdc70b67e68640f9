// Package api exposes pipeline runs over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"maritime-forecast/internal/api/handlers"
	"maritime-forecast/internal/api/middleware"
	"maritime-forecast/internal/data"
	"maritime-forecast/internal/pipeline"
	"maritime-forecast/internal/telemetry"
)

type Options struct {
	Loader         handlers.Loader
	Engine         *pipeline.Engine
	Runs           *data.RunCache[*pipeline.Result]
	Defaults       pipeline.Options
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *slog.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.Tracing())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(telemetry.Handler()))

	runHandler := handlers.NewRunHandler(opts.Loader, opts.Engine, opts.Runs, opts.Defaults, log)
	portHandler := handlers.NewPortHandler(opts.Loader)
	limiter := middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)

	api := router.Group("/api/v1")
	{
		api.POST("/runs", middleware.RateLimit(limiter), runHandler.CreateRun)
		api.GET("/runs/:id", runHandler.GetRun)
		api.GET("/runs/:id/forecast", runHandler.GetForecast)
		api.GET("/runs/:id/profits", runHandler.GetProfits)
		api.GET("/runs/:id/ports", runHandler.GetPorts)
		api.GET("/runs/:id/vessels", runHandler.GetVessels)
		api.GET("/runs/:id/trades", runHandler.GetTrades)

		api.GET("/ports/risk", portHandler.RankPorts)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
