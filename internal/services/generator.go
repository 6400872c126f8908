package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BenjaminLTakaki/coverart-api/internal/config"
	"github.com/BenjaminLTakaki/coverart-api/internal/genre"
	"github.com/BenjaminLTakaki/coverart-api/internal/llm"
	"github.com/BenjaminLTakaki/coverart-api/internal/logger"
	"github.com/BenjaminLTakaki/coverart-api/internal/metrics"
	"github.com/BenjaminLTakaki/coverart-api/internal/models"
	"github.com/BenjaminLTakaki/coverart-api/internal/prompt"
	"github.com/BenjaminLTakaki/coverart-api/internal/storage"
	"github.com/BenjaminLTakaki/coverart-api/internal/styles"
	"gorm.io/gorm"
)

const (
	externalAssetName = "External LoRA"
	timestampLayout   = time.RFC3339
	percentageEntries = 5
)

// CatalogClient resolves a Spotify URL into item metadata and genre tags.
type CatalogClient interface {
	ExtractCatalogData(ctx context.Context, url string) (*models.CatalogData, error)
}

// ImageGenerator renders a prompt into an image file.
type ImageGenerator interface {
	GenerateCover(ctx context.Context, prompt, outputPath string) error
}

// GeneratorService runs the full cover-generation pipeline, from catalog
// lookup through genre classification to the generated image and record.
type GeneratorService struct {
	cfg       *config.Config
	catalog   CatalogClient
	image     ImageGenerator
	providers *llm.ProviderFactory
	builder   *prompt.Builder
	store     *storage.Store
	registry  *styles.Registry
	civitai   *styles.CivitaiClient
	db        *gorm.DB
	metrics   *metrics.SentryMetrics
}

// NewGeneratorService wires the pipeline together. db may be nil when no
// history index is wanted (the CLI one-shot path).
func NewGeneratorService(
	cfg *config.Config,
	catalog CatalogClient,
	image ImageGenerator,
	registry *styles.Registry,
	db *gorm.DB,
) *GeneratorService {
	return &GeneratorService{
		cfg:       cfg,
		catalog:   catalog,
		image:     image,
		providers: llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey),
		builder:   prompt.NewBuilder(),
		store:     storage.NewStore(cfg.DataDir),
		registry:  registry,
		civitai:   styles.NewCivitaiClient(),
		db:        db,
		metrics:   metrics.NewSentryMetrics(),
	}
}

// GenerateOptions are the caller-supplied inputs for one generation.
type GenerateOptions struct {
	SpotifyURL string
	Mood       string // optional user mood override
	StyleName  string // optional: name of a registered style asset
	StyleURL   string // optional: direct model URL
}

// GenerationResult is the in-memory outcome of one generation. Record is
// also persisted unless the write failed, in which case DataFile is empty.
type GenerationResult struct {
	Record      models.GenerationRecord `json:"record"`
	Percentages []genre.GenrePercentage `json:"genre_percentages"`
	FoundGenres bool                    `json:"found_genres"`
}

// Generate runs the pipeline for one Spotify URL.
func (s *GeneratorService) Generate(ctx context.Context, opts GenerateOptions) (*GenerationResult, error) {
	startTime := time.Now()

	logger.Info("Processing Spotify URL", logger.Fields{"spotify_url": opts.SpotifyURL})

	if s.catalog == nil {
		return nil, errors.New("spotify client not configured")
	}

	data, err := s.catalog.ExtractCatalogData(ctx, opts.SpotifyURL)
	if err != nil {
		return nil, fmt.Errorf("extracting catalog data: %w", err)
	}

	profile := genre.Classify(data.Genres)
	logger.Info("Genre profile built", logger.Fields{
		"item_name":  data.ItemName,
		"top_genres": strings.Join(profile.TopGenres, ", "),
		"mood":       profile.Mood,
		"energy":     profile.EnergyLevel,
	})

	asset := s.resolveStyleAsset(ctx, opts.StyleName, opts.StyleURL)

	basePrompt := s.builder.BuildImagePrompt(profile, opts.Mood)
	title := s.generateTitle(ctx, profile)
	logger.Info("Generated title", logger.Fields{"title": title})

	imagePrompt := s.builder.WithStyleAsset(s.builder.WithTitle(basePrompt, title), asset)
	logger.Debug("Final image prompt", logger.Fields{"prompt": imagePrompt})

	outputPath := filepath.Join(s.cfg.CoversDir, storage.ImageFilename(title))
	if err := s.image.GenerateCover(ctx, imagePrompt, outputPath); err != nil {
		s.metrics.RecordGeneration(ctx, data.ItemName, len(data.Genres), false, time.Since(startTime))
		return nil, fmt.Errorf("generating cover image: %w", err)
	}

	mood := profile.Mood
	if opts.Mood != "" {
		mood = opts.Mood
	}

	record := models.GenerationRecord{
		Title:         title,
		OutputPath:    outputPath,
		ItemName:      data.ItemName,
		Genres:        profile.TopGenres,
		AllGenres:     profile.AllGenres,
		StyleElements: profile.StyleElements(),
		Mood:          mood,
		EnergyLevel:   profile.EnergyLevel,
		Timestamp:     time.Now().Format(timestampLayout),
		SpotifyURL:    opts.SpotifyURL,
	}
	if asset != nil {
		record.LoraName = asset.Name
		record.LoraType = asset.SourceType
		record.LoraURL = asset.URL
	}

	// Persistence failure is non-fatal: the generation already succeeded,
	// the caller just gets no stored-file reference.
	if _, err := s.store.SaveRecord(&record); err != nil {
		logger.Error("Failed to save generation record", err, logger.Fields{"item_name": data.ItemName})
		record.DataFile = ""
	}

	s.saveHistory(&record)

	duration := time.Since(startTime)
	s.metrics.RecordGeneration(ctx, data.ItemName, len(data.Genres), true, duration)
	logger.LogGeneration(data.ItemName, mood, profile.EnergyLevel, len(data.Genres), duration)

	return &GenerationResult{
		Record:      record,
		Percentages: profile.Percentages(percentageEntries),
		FoundGenres: data.FoundGenres,
	}, nil
}

// generateTitle asks the configured LLM for a title. Any failure falls back
// to the literal default rather than failing the generation.
func (s *GeneratorService) generateTitle(ctx context.Context, profile genre.Profile) string {
	provider, err := s.providers.GetProvider(ctx, s.cfg.TitleModel)
	if err != nil {
		logger.Warn("Title provider unavailable, using fallback title", logger.Fields{"error": err.Error()})
		return llm.FallbackTitle
	}

	raw, err := provider.GenerateTitle(ctx, &llm.TitleRequest{
		Model:  s.cfg.TitleModel,
		Prompt: s.builder.BuildTitlePrompt(profile),
	})
	if err != nil {
		logger.Warn("Title generation failed, using fallback title", logger.Fields{
			"provider": provider.Name(),
			"error":    err.Error(),
		})
		return llm.FallbackTitle
	}

	return llm.SanitizeTitle(raw)
}

// resolveStyleAsset turns the user's style input (registered name or direct
// URL) into a single resolved asset before prompt composition. Returns nil
// when no style was requested.
func (s *GeneratorService) resolveStyleAsset(ctx context.Context, name, rawURL string) *models.StyleAsset {
	if name != "" && name != "none" {
		if asset, ok := s.registry.Find(name); ok {
			return &asset
		}
		// Unknown name: still usable as a bare style reference.
		return &models.StyleAsset{
			Name:         name,
			SourceType:   models.StyleSourceLocal,
			TriggerWords: []string{},
			Strength:     models.DefaultStyleStrength,
		}
	}

	if rawURL == "" {
		return nil
	}

	asset := &models.StyleAsset{
		Name:         externalAssetName,
		SourceType:   models.StyleSourceLink,
		URL:          rawURL,
		TriggerWords: []string{},
		Strength:     models.DefaultStyleStrength,
	}

	if s.cfg.CivitaiEnabled && strings.Contains(rawURL, "civitai.com") {
		if modelID := styles.ExtractModelID(rawURL); modelID != "" {
			details, err := s.civitai.FetchDetails(ctx, modelID)
			if err != nil {
				logger.Warn("Civitai lookup failed", logger.Fields{"error": err.Error()})
			} else {
				if details.Name != "" {
					asset.Name = details.Name
				}
				if len(details.TriggerWords) > 0 {
					asset.TriggerWords = details.TriggerWords
				}
			}
		}
	}

	return asset
}

// saveHistory indexes the record in the SQLite history table; failures only
// log since the JSON record is the source of truth.
func (s *GeneratorService) saveHistory(record *models.GenerationRecord) {
	if s.db == nil {
		return
	}

	row := models.Generation{
		Title:       record.Title,
		ItemName:    record.ItemName,
		SpotifyURL:  record.SpotifyURL,
		Mood:        record.Mood,
		EnergyLevel: record.EnergyLevel,
		ImagePath:   record.OutputPath,
		DataFile:    record.DataFile,
		LoraName:    record.LoraName,
	}
	if err := s.db.Create(&row).Error; err != nil {
		logger.Error("Failed to index generation in history", err, logger.Fields{"item_name": record.ItemName})
	}
}

// History lists past generations, newest first.
func (s *GeneratorService) History(limit int) ([]models.Generation, error) {
	if s.db == nil {
		return nil, fmt.Errorf("history index not configured")
	}

	var rows []models.Generation
	if err := s.db.Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing generation history: %w", err)
	}
	return rows, nil
}
