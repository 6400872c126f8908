package cmd

import (
	"context"
	"log"
	"time"

	"github.com/BenjaminLTakaki/coverart-api/internal/api"
	"github.com/BenjaminLTakaki/coverart-api/internal/config"
	"github.com/BenjaminLTakaki/coverart-api/internal/database"
	"github.com/BenjaminLTakaki/coverart-api/internal/image"
	"github.com/BenjaminLTakaki/coverart-api/internal/services"
	coverspotify "github.com/BenjaminLTakaki/coverart-api/internal/spotify"
	"github.com/BenjaminLTakaki/coverart-api/internal/styles"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cover generation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg := config.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "coverart-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0, // 100% sampling for now, adjust based on volume
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
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

	if err := cfg.EnsureDirs(); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to create data directories:", err)
	}

	// Initialize history database
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to open history database:", err)
	}
	if err := database.Migrate(db); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to run migrations:", err)
	}

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Spotify catalog client
	spotifyUp := false
	var catalog services.CatalogClient
	if cfg.HasSpotifyCredentials() {
		client, err := coverspotify.NewClient(context.Background(), cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		if err != nil {
			sentry.CaptureException(err)
			log.Printf("Failed to initialize Spotify client: %v", err)
		} else {
			catalog = client
			spotifyUp = true
		}
	} else {
		log.Println("⚠️  Spotify credentials not configured (SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET)")
	}

	registry := styles.NewRegistry(cfg.LoraDir, cfg.LoraConfig)
	imageClient := image.NewStabilityClient(cfg.StabilityAPIKey)
	generator := services.NewGeneratorService(cfg, catalog, imageClient, registry, db)

	router := api.SetupRouter(cfg, generator, registry, spotifyUp, releaseVersion)

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
	return nil
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
