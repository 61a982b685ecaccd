package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"igsaver/pkg/logger"
)

// DefaultPath is the settings file read when --config is not given
const DefaultPath = "config.yaml"

// Bounds of output.max_filename_length
const (
	MinFilenameLength = 32
	MaxFilenameLength = 255
)

// Config holds all settings for a backup run
type Config struct {
	Download DownloadConfig `yaml:"download" json:"download"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Advanced AdvancedConfig `yaml:"advanced" json:"advanced"`
	Filters  FiltersConfig  `yaml:"filters" json:"filters"`
}

// DownloadConfig selects which items are downloaded
type DownloadConfig struct {
	OnlyVideos             bool   `yaml:"only_videos" json:"only_videos"`
	OnlyPhotos             bool   `yaml:"only_photos" json:"only_photos"`
	MinDate                string `yaml:"min_date" json:"min_date"`
	MaxDate                string `yaml:"max_date" json:"max_date"`
	VideoQuality           string `yaml:"video_quality" json:"video_quality"`
	StoriesIncludeArchived bool   `yaml:"stories_include_archived" json:"stories_include_archived"`

	// Parsed bounds, zero when unset or invalid
	MinTime time.Time `yaml:"-" json:"-"`
	MaxTime time.Time `yaml:"-" json:"-"`
}

// OutputConfig controls the directory layout of the backup
type OutputConfig struct {
	UseDateFolders    bool `yaml:"use_date_folders" json:"use_date_folders"`
	FlattenStructure  bool `yaml:"flatten_structure" json:"flatten_structure"`
	IncludeCaption    bool `yaml:"include_caption" json:"include_caption"`
	SaveMetadata      bool `yaml:"save_metadata" json:"save_metadata"`
	MaxFilenameLength int  `yaml:"max_filename_length" json:"max_filename_length"`
}

// AdvancedConfig holds pacing and runtime knobs
type AdvancedConfig struct {
	DelayBetweenItems   float64 `yaml:"delay_between_items" json:"delay_between_items"`
	MaxRetries          int     `yaml:"max_retries" json:"max_retries"`
	LogLevel            string  `yaml:"log_level" json:"log_level"`
	ConcurrentDownloads int     `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	RequestTimeout      int     `yaml:"request_timeout" json:"request_timeout"`
	SessionBackend      string  `yaml:"session_backend" json:"session_backend"`
}

// FiltersConfig holds glob patterns and size bounds
type FiltersConfig struct {
	ExcludePatterns []string `yaml:"exclude_patterns" json:"exclude_patterns"`
	IncludePatterns []string `yaml:"include_patterns" json:"include_patterns"`
	MinSizeMB       float64  `yaml:"min_size_mb" json:"min_size_mb"`
	MaxSizeMB       float64  `yaml:"max_size_mb" json:"max_size_mb"`
}

// DefaultConfig returns a Config instance with the documented defaults
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			VideoQuality: "high",
		},
		Output: OutputConfig{
			MaxFilenameLength: 255,
		},
		Advanced: AdvancedConfig{
			DelayBetweenItems:   0.5,
			MaxRetries:          3,
			LogLevel:            "INFO",
			ConcurrentDownloads: 1,
			RequestTimeout:      30,
			SessionBackend:      "file",
		},
		Filters: FiltersConfig{
			ExcludePatterns: []string{},
			IncludePatterns: []string{},
		},
	}
}

// Delay returns the pause between two item downloads
func (c *Config) Delay() time.Duration {
	if c.Advanced.DelayBetweenItems <= 0 {
		return 0
	}
	return time.Duration(c.Advanced.DelayBetweenItems * float64(time.Second))
}

// Timeout returns the HTTP request timeout
func (c *Config) Timeout() time.Duration {
	if c.Advanced.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Advanced.RequestTimeout) * time.Second
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Download.VideoQuality) {
	case "high", "low":
	default:
		errs = append(errs, fmt.Errorf("video_quality must be high or low, got %q", c.Download.VideoQuality))
	}
	if !c.Download.MinTime.IsZero() && !c.Download.MaxTime.IsZero() && c.Download.MinTime.After(c.Download.MaxTime) {
		errs = append(errs, errors.New("min_date is after max_date"))
	}

	if c.Output.MaxFilenameLength < MinFilenameLength || c.Output.MaxFilenameLength > MaxFilenameLength {
		errs = append(errs, fmt.Errorf("max_filename_length must be between %d and %d", MinFilenameLength, MaxFilenameLength))
	}

	if c.Advanced.DelayBetweenItems < 0 {
		errs = append(errs, errors.New("delay_between_items cannot be negative"))
	}
	if c.Advanced.MaxRetries < 0 {
		errs = append(errs, errors.New("max_retries cannot be negative"))
	}
	if c.Advanced.ConcurrentDownloads < 1 {
		errs = append(errs, errors.New("concurrent_downloads must be positive"))
	}
	if c.Advanced.RequestTimeout < 0 {
		errs = append(errs, errors.New("request_timeout cannot be negative"))
	}
	if _, err := logger.ParseLevel(c.Advanced.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log_level: %w", err))
	}
	switch c.Advanced.SessionBackend {
	case "file", "keyring":
	default:
		errs = append(errs, fmt.Errorf("session_backend must be file or keyring, got %q", c.Advanced.SessionBackend))
	}

	if c.Filters.MinSizeMB < 0 || c.Filters.MaxSizeMB < 0 {
		errs = append(errs, errors.New("size bounds cannot be negative"))
	}
	if c.Filters.MaxSizeMB > 0 && c.Filters.MinSizeMB > c.Filters.MaxSizeMB {
		errs = append(errs, errors.New("min_size_mb is larger than max_size_mb"))
	}
	for _, p := range append(append([]string{}, c.Filters.IncludePatterns...), c.Filters.ExcludePatterns...) {
		if _, err := glob.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("invalid pattern %q: %w", p, err))
		}
	}

	return errors.Join(errs...)
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
