package api

import (
	"github.com/Conceptual-Machines/music-track-generator/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/music-track-generator/internal/api/middleware"
	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	"github.com/Conceptual-Machines/music-track-generator/internal/generator"
	"github.com/Conceptual-Machines/music-track-generator/internal/metrics"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the long-lived components shared by every request
type Dependencies struct {
	Config           *config.Config
	Store            *presets.Store
	Generators       *generator.Cache
	GeneratorOptions generator.Options
	Metrics          *metrics.Recorder
	Version          string
}

func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Metrics))

	router.Use(apimiddleware.CORS())

	// Public endpoints
	serviceHandler := handlers.NewServiceHandler(deps.Config, deps.Store, deps.Version)
	router.GET("/", serviceHandler.Root)
	router.GET("/health", serviceHandler.HealthCheck)
	router.GET("/docs", handlers.Docs(router.Routes))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Everything else requires the shared secret when one is configured
	protected := router.Group("/")
	protected.Use(apimiddleware.APIKeyAuth(deps.Config.APIKey))
	{
		protected.GET("/config", serviceHandler.Config)

		metricsHandler := handlers.NewMetricsHandler(deps.Config, deps.Store, deps.Generators, deps.Version)
		protected.GET("/api/metrics", metricsHandler.GetMetrics)

		trackHandler := handlers.NewTrackHandler(deps.Store, deps.Generators, deps.GeneratorOptions)
		protected.POST("/tracks/generate", trackHandler.Generate)

		presetHandler := handlers.NewPresetHandler(deps.Store, deps.Metrics)
		protected.GET("/presets", presetHandler.List)
		protected.GET("/presets/:name", presetHandler.Get)
		protected.POST("/presets", presetHandler.Create)
		protected.DELETE("/presets/:name", presetHandler.Delete)

		tipsHandler := handlers.NewTipsHandler(deps.Store)
		protected.GET("/prompt-tips", tipsHandler.PromptTips)
	}

	return router
}
