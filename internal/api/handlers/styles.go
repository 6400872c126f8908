package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/BenjaminLTakaki/coverart-api/internal/config"
	"github.com/BenjaminLTakaki/coverart-api/internal/logger"
	"github.com/BenjaminLTakaki/coverart-api/internal/models"
	"github.com/BenjaminLTakaki/coverart-api/internal/styles"
	"github.com/gin-gonic/gin"
)

// StylesHandler manages the style-asset catalog endpoints.
type StylesHandler struct {
	cfg      *config.Config
	registry *styles.Registry
	civitai  *styles.CivitaiClient
}

// NewStylesHandler creates a new styles handler
func NewStylesHandler(cfg *config.Config, registry *styles.Registry) *StylesHandler {
	return &StylesHandler{
		cfg:      cfg,
		registry: registry,
		civitai:  styles.NewCivitaiClient(),
	}
}

// List handles GET /api/v1/styles
func (h *StylesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"loras": h.registry.List()})
}

// Upload handles POST /api/v1/styles/uploads. The model file lands in the
// lora directory, where the registry picks it up as a local asset.
func (h *StylesHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}

	filename := filepath.Base(file.Filename)
	if filename == "." || !styles.IsModelFile(filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be one of: .safetensors, .ckpt, .pt"})
		return
	}

	dst := filepath.Join(h.cfg.LoraDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		logger.Error("Failed to save uploaded model file", err, logger.Fields{"filename": filename})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save uploaded file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "LoRA file " + filename + " uploaded successfully",
		"loras":   h.registry.List(),
	})
}

// AddLinkRequest is the request body for registering a link-based asset.
type AddLinkRequest struct {
	Name         string   `json:"name"`
	URL          string   `json:"url" binding:"required"`
	TriggerWords []string `json:"trigger_words"`
	Strength     float64  `json:"strength"`
}

// AddLink handles POST /api/v1/styles/links
func (h *StylesHandler) AddLink(c *gin.Context) {
	var req AddLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "LoRA URL is required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	triggerWords := req.TriggerWords

	// No name supplied: try Civitai metadata, then fall back to the URL's
	// file name.
	if name == "" {
		if h.cfg.CivitaiEnabled && strings.Contains(req.URL, "civitai.com") {
			if modelID := styles.ExtractModelID(req.URL); modelID != "" {
				if details, err := h.civitai.FetchDetails(c.Request.Context(), modelID); err == nil {
					name = details.Name
					if len(triggerWords) == 0 {
						triggerWords = details.TriggerWords
					}
				} else {
					logger.Warn("Civitai lookup failed", logger.Fields{"error": err.Error()})
				}
			}
		}
		if name == "" {
			name = styles.NameFromURL(req.URL)
		}
	}

	strength := req.Strength
	if strength <= 0 || strength > 1 {
		strength = models.DefaultStyleStrength
	}

	if err := h.registry.AddLink(name, req.URL, triggerWords, strength); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "LoRA '" + name + "' added successfully",
		"loras":   h.registry.List(),
	})
}
