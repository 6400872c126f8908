package api

import (
	"github.com/BenjaminLTakaki/coverart-api/internal/api/handlers"
	apimiddleware "github.com/BenjaminLTakaki/coverart-api/internal/api/middleware"
	"github.com/BenjaminLTakaki/coverart-api/internal/config"
	"github.com/BenjaminLTakaki/coverart-api/internal/services"
	"github.com/BenjaminLTakaki/coverart-api/internal/styles"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(
	cfg *config.Config,
	generator *services.GeneratorService,
	registry *styles.Registry,
	spotifyUp bool,
	version string,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Serve generated cover images
	router.Static("/covers", cfg.CoversDir)

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(cfg, registry, spotifyUp, version)
	router.GET("/status", statusHandler.Status)

	v1 := router.Group("/api/v1")
	{
		coverHandler := handlers.NewCoverHandler(generator)
		v1.POST("/covers", coverHandler.Generate)
		v1.POST("/covers/regenerate", coverHandler.Regenerate)
		v1.GET("/generations", coverHandler.History)

		stylesHandler := handlers.NewStylesHandler(cfg, registry)
		v1.GET("/styles", stylesHandler.List)
		v1.POST("/styles/links", stylesHandler.AddLink)
		v1.POST("/styles/uploads", stylesHandler.Upload)
	}

	return router
}
