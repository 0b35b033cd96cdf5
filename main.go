package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Conceptual-Machines/music-track-generator/internal/api"
	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	"github.com/Conceptual-Machines/music-track-generator/internal/generator"
	"github.com/Conceptual-Machines/music-track-generator/internal/metrics"
	"github.com/Conceptual-Machines/music-track-generator/internal/observability"
	"github.com/Conceptual-Machines/music-track-generator/internal/presets"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	sentryFlushTimeout = 2 * time.Second
	generatorCacheSize = 16
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	ctx := context.Background()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "music-track-generator@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	tracer := observability.NewLangfuseClient(ctx, cfg)
	recorder := metrics.NewRecorder(metrics.NewClient(ctx, cfg.Environment))

	store, err := presets.NewStore(cfg.PresetsDir)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to open presets directory: ", err)
	}

	generators, err := generator.NewCache(generatorCacheSize)
	if err != nil {
		log.Fatal("Failed to create generator cache: ", err)
	}

	// Build the configured generator up front so a bad gcp setup fails at
	// startup instead of on the first request.
	genOpts := generator.OptionsFromConfig(cfg)
	genOpts.Tracer = tracer
	genOpts.Metrics = recorder
	if _, err := generators.Get(ctx, genOpts); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to initialize generator: ", err)
	}

	logStartup(cfg, store)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(api.Dependencies{
		Config:           cfg,
		Store:            store,
		Generators:       generators,
		GeneratorOptions: genOpts,
		Metrics:          recorder,
		Version:          GetVersion(),
	})

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server: ", err)
	}
}

func logStartup(cfg *config.Config, store *presets.Store) {
	log.Printf("🎵 Music Track Generator %s (mode: %s)", releaseVersion, cfg.Mode)
	if cfg.AuthEnabled() {
		log.Println("🔒 API key authentication enabled")
	} else {
		log.Println("⚠️  API key authentication disabled (MUSIC_GEN_API_KEY not set)")
	}
	if cfg.IsGCPMode() {
		log.Printf("☁️  GCP project: %s, region: %s", cfg.GoogleCloudProject, cfg.GoogleCloudRegion)
	}

	names, err := store.List()
	if err != nil {
		log.Printf("⚠️  Failed to list presets: %v", err)
		return
	}
	log.Printf("📂 %d presets loaded from %s", len(names), store.Dir())
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
