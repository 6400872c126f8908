package models

// Style asset source types
const (
	StyleSourceLocal = "local"
	StyleSourceLink  = "link"

	// DefaultStyleStrength is applied when an asset does not carry one
	DefaultStyleStrength = 0.7
)

// StyleAsset is a style-modifier resource (a LoRA): either a local model
// file or an external link, optionally carrying trigger phrases. The
// orchestration layer resolves user input to exactly one of these (or nil)
// before prompt composition sees it.
type StyleAsset struct {
	Name         string   `json:"name"`
	SourceType   string   `json:"source_type"` // "local" or "link"
	Path         string   `json:"path"`
	URL          string   `json:"url"`
	TriggerWords []string `json:"trigger_words"`
	Strength     float64  `json:"strength"`
}

// IsLocal reports whether the asset is a locally stored model file.
func (a StyleAsset) IsLocal() bool {
	return a.SourceType == StyleSourceLocal
}

// GenerationRecord is the flat persisted document for one completed cover
// generation. Field names are part of the on-disk contract; any compatible
// reader or writer depends on them.
//
// style_elements is stored for readers' convenience but is a pure function
// of genres; loaders recompute it rather than trusting the stored value.
type GenerationRecord struct {
	Title         string   `json:"title"`
	OutputPath    string   `json:"output_path"`
	ItemName      string   `json:"item_name"`
	Genres        []string `json:"genres"`
	AllGenres     []string `json:"all_genres"`
	StyleElements []string `json:"style_elements"`
	Mood          string   `json:"mood"`
	EnergyLevel   string   `json:"energy_level"`
	Timestamp     string   `json:"timestamp"`
	SpotifyURL    string   `json:"spotify_url"`
	DataFile      string   `json:"data_file"`
	LoraName      string   `json:"lora_name,omitempty"`
	LoraType      string   `json:"lora_type,omitempty"`
	LoraURL       string   `json:"lora_url,omitempty"`
}

// CatalogData is what the music catalog collaborator hands to the
// generation pipeline: display name, a sample of track names and the raw
// (unranked, duplicate-preserving) genre tag list.
type CatalogData struct {
	ItemName    string
	TrackNames  []string
	Genres      []string
	SpotifyURL  string
	FoundGenres bool
}
