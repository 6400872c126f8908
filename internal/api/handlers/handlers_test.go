package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/BenjaminLTakaki/coverart-api/internal/config"
	"github.com/BenjaminLTakaki/coverart-api/internal/styles"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Load()
	cfg.LoraDir = filepath.Join(dir, "loras")
	cfg.LoraConfig = filepath.Join(dir, "lora_config.json")
	cfg.CivitaiEnabled = false
	require.NoError(t, os.MkdirAll(cfg.LoraDir, 0o755))
	return cfg
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := performRequest(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestStatus(t *testing.T) {
	cfg := testConfig(t)
	cfg.GeminiAPIKey = "key"
	cfg.StabilityAPIKey = "key"
	registry := styles.NewRegistry(cfg.LoraDir, cfg.LoraConfig)

	router := gin.New()
	handler := NewStatusHandler(cfg, registry, true, "1.2.3")
	router.GET("/status", handler.Status)

	w := performRequest(router, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["initialized"])
	assert.Equal(t, true, resp["spotify_working"])
	assert.Equal(t, float64(0), resp["loras_available"])
	assert.Equal(t, "1.2.3", resp["version"])
}

func TestStatus_NotInitializedWithoutKeys(t *testing.T) {
	cfg := testConfig(t)
	cfg.GeminiAPIKey = ""
	cfg.StabilityAPIKey = ""
	registry := styles.NewRegistry(cfg.LoraDir, cfg.LoraConfig)

	router := gin.New()
	handler := NewStatusHandler(cfg, registry, false, "dev")
	router.GET("/status", handler.Status)

	w := performRequest(router, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["initialized"])
}

func TestGenerate_MissingSpotifyURL(t *testing.T) {
	router := gin.New()
	handler := NewCoverHandler(nil)
	router.POST("/api/v1/covers", handler.Generate)

	w := performRequest(router, http.MethodPost, "/api/v1/covers", gin.H{"mood": "dreamy"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing spotify_url")
}

func TestStylesList(t *testing.T) {
	cfg := testConfig(t)
	registry := styles.NewRegistry(cfg.LoraDir, cfg.LoraConfig)
	require.NoError(t, registry.AddLink("Sketch", "https://civitai.com/models/99", nil, 0.7))

	router := gin.New()
	handler := NewStylesHandler(cfg, registry)
	router.GET("/api/v1/styles", handler.List)

	w := performRequest(router, http.MethodGet, "/api/v1/styles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sketch")
}

func TestStylesAddLink(t *testing.T) {
	cfg := testConfig(t)
	registry := styles.NewRegistry(cfg.LoraDir, cfg.LoraConfig)

	router := gin.New()
	handler := NewStylesHandler(cfg, registry)
	router.POST("/api/v1/styles/links", handler.AddLink)

	t.Run("registers a named link", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/styles/links", gin.H{
			"name":     "Sketch",
			"url":      "https://civitai.com/models/99",
			"strength": 0.8,
		})
		require.Equal(t, http.StatusOK, w.Code)

		asset, ok := registry.Find("Sketch")
		require.True(t, ok)
		assert.Equal(t, 0.8, asset.Strength)
	})

	t.Run("derives the name from the URL", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/styles/links", gin.H{
			"url": "https://example.com/models/watercolor.safetensors",
		})
		require.Equal(t, http.StatusOK, w.Code)

		_, ok := registry.Find("watercolor")
		assert.True(t, ok)
	})

	t.Run("missing url is rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/styles/links", gin.H{
			"name": "Sketch",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("out of range strength falls back to default", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/styles/links", gin.H{
			"name":     "Heavy",
			"url":      "https://civitai.com/models/100",
			"strength": 3.5,
		})
		require.Equal(t, http.StatusOK, w.Code)

		asset, ok := registry.Find("Heavy")
		require.True(t, ok)
		assert.Equal(t, 0.7, asset.Strength)
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/api/v1/styles/links", gin.H{
			"name": "Sketch",
			"url":  "https://civitai.com/models/101",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})
}

func performUpload(t *testing.T, router *gin.Engine, fieldName, fileName string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := writer.CreateFormFile(fieldName, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("model bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/styles/uploads", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStylesUpload(t *testing.T) {
	cfg := testConfig(t)
	registry := styles.NewRegistry(cfg.LoraDir, cfg.LoraConfig)

	router := gin.New()
	handler := NewStylesHandler(cfg, registry)
	router.POST("/api/v1/styles/uploads", handler.Upload)

	t.Run("stores the model file as a local asset", func(t *testing.T) {
		w := performUpload(t, router, "file", "watercolor.safetensors")
		require.Equal(t, http.StatusOK, w.Code)

		_, err := os.Stat(filepath.Join(cfg.LoraDir, "watercolor.safetensors"))
		require.NoError(t, err)

		asset, ok := registry.Find("watercolor")
		require.True(t, ok)
		assert.True(t, asset.IsLocal())
		assert.Contains(t, w.Body.String(), "watercolor.safetensors")
	})

	t.Run("rejects unknown extensions", func(t *testing.T) {
		w := performUpload(t, router, "file", "notes.txt")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "File must be one of")
	})

	t.Run("rejects a missing file part", func(t *testing.T) {
		w := performUpload(t, router, "other", "watercolor.safetensors")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No file part")
	})

	t.Run("strips directory components from the file name", func(t *testing.T) {
		w := performUpload(t, router, "file", "../escape.ckpt")
		require.Equal(t, http.StatusOK, w.Code)

		_, err := os.Stat(filepath.Join(cfg.LoraDir, "escape.ckpt"))
		assert.NoError(t, err)
	})
}
