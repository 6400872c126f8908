package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BenjaminLTakaki/coverart-api/internal/genre"
	"github.com/BenjaminLTakaki/coverart-api/internal/models"
)

const (
	filenameTimeLayout = "20060102_150405"
	recordFileMode     = 0o644
)

// Store persists generation records as flat JSON documents, one file per
// generation, under a single data directory.
type Store struct {
	dataDir string
}

// NewStore creates a store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// SaveRecord writes the record to a timestamped JSON file and returns the
// file path. The record's DataFile field is set to the chosen path before
// marshaling so the stored document references itself.
func (s *Store) SaveRecord(record *models.GenerationRecord) (string, error) {
	timestamp := time.Now().Format(filenameTimeLayout)
	filename := fmt.Sprintf("%s_%s.json", timestamp, SafeName(record.ItemName))
	path := filepath.Join(s.dataDir, filename)

	record.DataFile = path

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling generation record: %w", err)
	}

	if err := os.WriteFile(path, data, recordFileMode); err != nil {
		return "", fmt.Errorf("writing generation record: %w", err)
	}

	return path, nil
}

// LoadRecord reads a persisted record back. Style elements are derived from
// the ranked genres rather than trusted from disk, so a record whose genres
// were edited by hand still reports consistent styles.
func (s *Store) LoadRecord(path string) (*models.GenerationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading generation record: %w", err)
	}

	var record models.GenerationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing generation record %s: %w", filepath.Base(path), err)
	}

	record.StyleElements = genre.StyleElementsFor(record.Genres)
	return &record, nil
}

// ListRecords returns the paths of all persisted records, newest first
// (the timestamped filenames sort chronologically).
func (s *Store) ListRecords() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dataDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing generation records: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}

// SafeName reduces a display name to a filename-safe token: alphanumerics,
// dashes and underscores survive, spaces become underscores, everything else
// is dropped.
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

// ImageFilename builds the output filename for a generated cover image.
func ImageFilename(title string) string {
	timestamp := time.Now().Format(filenameTimeLayout)
	return fmt.Sprintf("%s_%s.png", timestamp, SafeName(title))
}
