package handlers

import (
	"net/http"

	"github.com/BenjaminLTakaki/coverart-api/internal/config"
	"github.com/BenjaminLTakaki/coverart-api/internal/styles"
	"github.com/gin-gonic/gin"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// StatusHandler reports service readiness and available style assets.
type StatusHandler struct {
	cfg         *config.Config
	registry    *styles.Registry
	spotifyUp   bool
	versionInfo string
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(cfg *config.Config, registry *styles.Registry, spotifyUp bool, version string) *StatusHandler {
	return &StatusHandler{
		cfg:         cfg,
		registry:    registry,
		spotifyUp:   spotifyUp,
		versionInfo: version,
	}
}

// Status returns initialization state and asset availability
func (h *StatusHandler) Status(c *gin.Context) {
	initialized := h.spotifyUp &&
		h.cfg.GeminiAPIKey != "" &&
		h.cfg.StabilityAPIKey != ""

	c.JSON(http.StatusOK, gin.H{
		"initialized":         initialized,
		"spotify_working":     h.spotifyUp,
		"loras_available":     len(h.registry.List()),
		"civitai_api_enabled": h.cfg.CivitaiEnabled,
		"version":             h.versionInfo,
	})
}
