package models

import "time"

// Generation is the SQLite history row indexed for every completed
// generation. The authoritative document is the JSON record on disk; this
// table only exists so past generations can be listed and re-opened quickly.
type Generation struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	ItemName    string    `json:"item_name"`
	SpotifyURL  string    `json:"spotify_url"`
	Mood        string    `json:"mood"`
	EnergyLevel string    `json:"energy_level"`
	ImagePath   string    `json:"image_path"`
	DataFile    string    `json:"data_file"`
	LoraName    string    `json:"lora_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
