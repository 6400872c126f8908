package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration. Everything comes from the
// environment; main loads a .env file first when one exists.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Spotify API (client-credentials flow)
	SpotifyClientID     string
	SpotifyClientSecret string

	// Generative APIs
	GeminiAPIKey    string // Google Gemini API key (title generation)
	OpenAIAPIKey    string // OpenAI API key (title generation fallback provider)
	StabilityAPIKey string // Stability AI key (image generation)
	TitleModel      string // Model used for title generation

	// Local persistence
	DatabasePath string // SQLite history index
	DataDir      string // JSON generation records
	CoversDir    string // Generated cover images
	LoraDir      string // Local style-asset model files
	LoraConfig   string // Link-based style-asset catalog

	// Civitai lookup for style-asset metadata
	CivitaiEnabled bool

	// Observability
	SentryDSN string
}

func Load() *Config {
	return &Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		Port:                getEnv("PORT", "8080"),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		StabilityAPIKey:     getEnv("STABILITY_API_KEY", ""),
		TitleModel:          getEnv("TITLE_MODEL", "gemini-2.0-flash"),
		DatabasePath:        getEnv("DATABASE_PATH", "coverart.db"),
		DataDir:             getEnv("DATA_DIR", "data"),
		CoversDir:           getEnv("COVERS_DIR", "generated_covers"),
		LoraDir:             getEnv("LORA_DIR", "loras"),
		LoraConfig:          getEnv("LORA_CONFIG_PATH", filepath.Join(".", "lora_config.json")),
		CivitaiEnabled:      getEnv("CIVITAI_API_ENABLED", "true") == "true",
		SentryDSN:           getEnv("SENTRY_DSN", ""),
	}
}

// EnsureDirs creates the data, covers and lora directories if missing.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.CoversDir, c.LoraDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// HasSpotifyCredentials reports whether the catalog client can authenticate.
func (c *Config) HasSpotifyCredentials() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
