// Package metadata writes the sidecar files stored next to downloaded
// media: a caption text file and a JSON description of the item.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"igsaver/pkg/instagram"
)

// Sidecar extensions
const (
	CaptionExt  = ".txt"
	MetadataExt = ".json"
)

// ItemMetadata describes one downloaded story or highlight item
type ItemMetadata struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"`
	Container    string    `json:"container"`
	TakenAt      time.Time `json:"taken_at"`
	IsVideo      bool      `json:"is_video"`
	MediaURL     string    `json:"media_url"`
	Caption      string    `json:"caption,omitempty"`
	FileSize     int64     `json:"file_size"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

// FromItem converts an API item into ItemMetadata
func FromItem(item instagram.Item, owner, container, mediaURL string, fileSize int64) *ItemMetadata {
	return &ItemMetadata{
		ID:           item.ID,
		Owner:        owner,
		Container:    container,
		TakenAt:      item.TakenAt(),
		IsVideo:      item.IsVideo(),
		MediaURL:     mediaURL,
		Caption:      item.CaptionText(),
		FileSize:     fileSize,
		DownloadedAt: time.Now().UTC(),
	}
}

// Save writes the metadata to <base>.json
func (m *ItemMetadata) Save(base string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(base+MetadataExt, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}

// Load reads metadata from <base>.json
func Load(base string) (*ItemMetadata, error) {
	data, err := os.ReadFile(base + MetadataExt)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta ItemMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &meta, nil
}

// SaveCaption writes caption to <base>.txt. An empty caption writes
// nothing and reports false.
func SaveCaption(base, caption string) (bool, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return false, nil
	}

	if err := os.WriteFile(base+CaptionExt, []byte(caption+"\n"), 0644); err != nil {
		return false, fmt.Errorf("failed to write caption file: %w", err)
	}
	return true, nil
}

// Exists checks if a metadata file exists for base
func Exists(base string) bool {
	_, err := os.Stat(base + MetadataExt)
	return err == nil
}
