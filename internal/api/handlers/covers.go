package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/BenjaminLTakaki/coverart-api/internal/logger"
	"github.com/BenjaminLTakaki/coverart-api/internal/services"
	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 50

// CoverHandler serves cover-generation requests.
type CoverHandler struct {
	generator *services.GeneratorService
}

// NewCoverHandler creates a new cover handler
func NewCoverHandler(generator *services.GeneratorService) *CoverHandler {
	return &CoverHandler{generator: generator}
}

// GenerateRequest is the request body for cover generation.
type GenerateRequest struct {
	SpotifyURL string `json:"spotify_url" binding:"required"`
	Mood       string `json:"mood"`
	LoraName   string `json:"lora_name"`
	LoraURL    string `json:"lora_url"`
}

// Generate handles POST /api/v1/covers
func (h *CoverHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing spotify_url in request"})
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), services.GenerateOptions{
		SpotifyURL: req.SpotifyURL,
		Mood:       req.Mood,
		StyleName:  req.LoraName,
		StyleURL:   req.LoraURL,
	})
	if err != nil {
		logger.Error("Cover generation failed", err, logger.WithContext(c))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := result.Record
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"request_id":        c.GetString("request_id"),
		"title":             record.Title,
		"image_path":        record.OutputPath,
		"image_url":         "/covers/" + filepath.Base(record.OutputPath),
		"data_file":         record.DataFile,
		"genres":            record.Genres,
		"genre_percentages": result.Percentages,
		"found_genres":      result.FoundGenres,
		"mood":              record.Mood,
		"energy_level":      record.EnergyLevel,
		"playlist_name":     record.ItemName,
		"lora_name":         record.LoraName,
		"lora_type":         record.LoraType,
		"lora_url":          record.LoraURL,
	})
}

// Regenerate handles POST /api/v1/covers/regenerate. Identical inputs, a
// fresh artifact: the diffusion backend is non-deterministic, so rerunning
// the pipeline yields a new variation.
func (h *CoverHandler) Regenerate(c *gin.Context) {
	h.Generate(c)
}

// History handles GET /api/v1/generations
func (h *CoverHandler) History(c *gin.Context) {
	rows, err := h.generator.History(defaultHistoryLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"generations": rows})
}
