package styles

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BenjaminLTakaki/coverart-api/internal/logger"
	"github.com/BenjaminLTakaki/coverart-api/internal/models"
)

var modelFileExtensions = []string{".safetensors", ".ckpt", ".pt"}

// Hosts that commonly serve LoRA model files; URLs elsewhere must point at
// a model file directly.
var knownLoraHosts = []string{
	"civitai.com",
	"huggingface.co",
	"cloudflare.com",
	"discord.com",
	"githubusercontent.com",
}

// Registry is the style-asset catalog: local model files discovered on disk
// plus link-based assets stored in a JSON config file. All config-file
// access holds the mutex, so listings never observe a half-written file
// and concurrent link additions cannot lose updates.
type Registry struct {
	loraDir    string
	configPath string

	mu sync.Mutex
}

type linkConfig struct {
	Loras []models.StyleAsset `json:"loras"`
}

// NewRegistry creates a registry over the given model directory and link
// config path.
func NewRegistry(loraDir, configPath string) *Registry {
	return &Registry{loraDir: loraDir, configPath: configPath}
}

// List returns every available style asset, local files first merged with
// link entries, sorted by name.
func (r *Registry) List() []models.StyleAsset {
	r.mu.Lock()
	defer r.mu.Unlock()

	assets := r.localAssets()

	config, err := r.readConfig()
	if err != nil {
		logger.Warn("Failed to read style-asset config", logger.Fields{"error": err.Error()})
	} else {
		for _, asset := range config.Loras {
			if asset.SourceType == models.StyleSourceLink {
				assets = append(assets, asset)
			}
		}
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Name < assets[j].Name
	})
	return assets
}

// Find returns the asset with the given name, or false when unknown.
func (r *Registry) Find(name string) (models.StyleAsset, bool) {
	for _, asset := range r.List() {
		if asset.Name == name {
			return asset, true
		}
	}
	return models.StyleAsset{}, false
}

// AddLink registers a new link-based asset. Names must be unique across
// both locals and links, and the URL must look like a model source.
func (r *Registry) AddLink(name, rawURL string, triggerWords []string, strength float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("style asset name cannot be empty")
	}
	if !IsValidAssetURL(rawURL) {
		return fmt.Errorf("invalid style asset URL format")
	}
	if triggerWords == nil {
		triggerWords = []string{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	config, err := r.readConfig()
	if err != nil {
		return err
	}

	for _, existing := range config.Loras {
		if existing.Name == name {
			return fmt.Errorf("style asset %q already exists", name)
		}
	}
	for _, local := range r.localAssets() {
		if local.Name == name {
			return fmt.Errorf("style asset %q already exists", name)
		}
	}

	config.Loras = append(config.Loras, models.StyleAsset{
		Name:         name,
		SourceType:   models.StyleSourceLink,
		URL:          rawURL,
		TriggerWords: triggerWords,
		Strength:     strength,
	})

	return r.writeConfig(config)
}

// localAssets scans the lora directory for model files.
func (r *Registry) localAssets() []models.StyleAsset {
	var assets []models.StyleAsset
	for _, ext := range modelFileExtensions {
		matches, err := filepath.Glob(filepath.Join(r.loraDir, "*"+ext))
		if err != nil {
			continue
		}
		for _, path := range matches {
			base := filepath.Base(path)
			assets = append(assets, models.StyleAsset{
				Name:         strings.TrimSuffix(base, filepath.Ext(base)),
				SourceType:   models.StyleSourceLocal,
				Path:         path,
				TriggerWords: []string{},
				Strength:     models.DefaultStyleStrength,
			})
		}
	}
	return assets
}

func (r *Registry) readConfig() (*linkConfig, error) {
	config := &linkConfig{}

	data, err := os.ReadFile(r.configPath)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading style-asset config: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing style-asset config: %w", err)
	}
	return config, nil
}

func (r *Registry) writeConfig(config *linkConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling style-asset config: %w", err)
	}
	if err := os.WriteFile(r.configPath, data, 0o644); err != nil {
		return fmt.Errorf("writing style-asset config: %w", err)
	}
	return nil
}

// IsModelFile reports whether a filename carries a known model extension.
func IsModelFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range modelFileExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// NameFromURL derives an asset name from the file name in a URL path,
// falling back to "External LoRA" when the path has none.
func NameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "External LoRA"
	}
	base := filepath.Base(parsed.Path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == "/" {
		return "External LoRA"
	}
	return name
}

// IsValidAssetURL reports whether a URL plausibly points at a style-asset
// model: a known hosting site, or a direct link to a model file.
func IsValidAssetURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}

	for _, host := range knownLoraHosts {
		if strings.Contains(parsed.Host, host) {
			return true
		}
	}

	path := strings.ToLower(parsed.Path)
	for _, ext := range append(modelFileExtensions, ".bin") {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
