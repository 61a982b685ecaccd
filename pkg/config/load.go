package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gobwas/glob"
	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"igsaver/pkg/logger"
)

// Load reads the settings file at path.
//
// Load never fails: a missing file yields the defaults silently, and an
// unreadable or malformed file yields the defaults plus a warning. Invalid
// values inside an otherwise valid file are reported as warnings and reset.
func Load(path string) (*Config, []string) {
	if path == "" {
		path = DefaultPath
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		err = errors.Annotatef(err, "unable to open config file at %s", path)
		return cfg, []string{fmt.Sprintf("Could not load config file: %v", err)}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		err = errors.Annotatef(err, "unable to parse config file at %s", path)
		return DefaultConfig(), []string{
			fmt.Sprintf("Could not load config file: %v", err),
			"Using default configuration",
		}
	}

	return cfg, cfg.normalize()
}

// normalize parses derived fields and resets values that would break a run
func (c *Config) normalize() []string {
	var warnings []string

	if c.Download.MinDate != "" {
		t, err := parseDate(c.Download.MinDate, false)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Invalid min_date format: %s", c.Download.MinDate))
		} else {
			c.Download.MinTime = t
		}
	}
	if c.Download.MaxDate != "" {
		t, err := parseDate(c.Download.MaxDate, true)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Invalid max_date format: %s", c.Download.MaxDate))
		} else {
			c.Download.MaxTime = t
		}
	}

	if c.Download.OnlyVideos && c.Download.OnlyPhotos {
		warnings = append(warnings, "only_videos and only_photos are both set, ignoring both")
		c.Download.OnlyVideos = false
		c.Download.OnlyPhotos = false
	}

	defaults := DefaultConfig()
	switch strings.ToLower(c.Download.VideoQuality) {
	case "":
		c.Download.VideoQuality = defaults.Download.VideoQuality
	case "high", "low":
	default:
		warnings = append(warnings, fmt.Sprintf("Invalid video_quality %q, using %s", c.Download.VideoQuality, defaults.Download.VideoQuality))
		c.Download.VideoQuality = defaults.Download.VideoQuality
	}

	if n := c.Output.MaxFilenameLength; n == 0 {
		c.Output.MaxFilenameLength = defaults.Output.MaxFilenameLength
	} else if n < MinFilenameLength || n > MaxFilenameLength {
		warnings = append(warnings, fmt.Sprintf("max_filename_length must be between %d and %d, using %d",
			MinFilenameLength, MaxFilenameLength, defaults.Output.MaxFilenameLength))
		c.Output.MaxFilenameLength = defaults.Output.MaxFilenameLength
	}

	if c.Advanced.LogLevel == "" {
		c.Advanced.LogLevel = defaults.Advanced.LogLevel
	} else if _, err := logger.ParseLevel(c.Advanced.LogLevel); err != nil {
		warnings = append(warnings, fmt.Sprintf("Invalid log_level %q, using %s", c.Advanced.LogLevel, defaults.Advanced.LogLevel))
		c.Advanced.LogLevel = defaults.Advanced.LogLevel
	}
	if c.Advanced.ConcurrentDownloads < 1 {
		warnings = append(warnings, fmt.Sprintf("concurrent_downloads must be positive, using %d", defaults.Advanced.ConcurrentDownloads))
		c.Advanced.ConcurrentDownloads = defaults.Advanced.ConcurrentDownloads
	}
	switch c.Advanced.SessionBackend {
	case "":
		c.Advanced.SessionBackend = defaults.Advanced.SessionBackend
	case "file", "keyring":
	default:
		warnings = append(warnings, fmt.Sprintf("Invalid session_backend %q, using %s", c.Advanced.SessionBackend, defaults.Advanced.SessionBackend))
		c.Advanced.SessionBackend = defaults.Advanced.SessionBackend
	}

	var dropped []string
	c.Filters.IncludePatterns, dropped = validPatterns(c.Filters.IncludePatterns)
	warnings = append(warnings, dropped...)
	c.Filters.ExcludePatterns, dropped = validPatterns(c.Filters.ExcludePatterns)
	warnings = append(warnings, dropped...)

	return warnings
}

// validPatterns keeps the patterns that compile and returns a warning for
// each one dropped
func validPatterns(patterns []string) ([]string, []string) {
	kept := make([]string, 0, len(patterns))
	var warnings []string
	for _, p := range patterns {
		if _, err := glob.Compile(p); err != nil {
			warnings = append(warnings, fmt.Sprintf("Invalid pattern %q ignored: %v", p, err))
			continue
		}
		kept = append(kept, p)
	}
	return kept, warnings
}

// parseDate accepts YYYY-MM-DD and the other layouts dateparse knows. A
// date-only upper bound covers the whole day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay && !strings.Contains(s, ":") && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t.UTC(), nil
}
