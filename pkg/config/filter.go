package config

import (
	"fmt"
	"time"

	"github.com/gobwas/glob"
)

const bytesPerMB = 1024 * 1024

// ItemInfo is what the filter needs to know about a candidate item
type ItemInfo struct {
	Container string
	Name      string
	TakenAt   time.Time
	IsVideo   bool
}

// Filter decides which items a run downloads
type Filter struct {
	onlyVideos bool
	onlyPhotos bool
	minTime    time.Time
	maxTime    time.Time
	include    []glob.Glob
	exclude    []glob.Glob
	minBytes   int64
	maxBytes   int64
}

// NewFilter compiles the filter settings of cfg
func NewFilter(cfg *Config) (*Filter, error) {
	f := &Filter{
		onlyVideos: cfg.Download.OnlyVideos,
		onlyPhotos: cfg.Download.OnlyPhotos,
		minTime:    cfg.Download.MinTime,
		maxTime:    cfg.Download.MaxTime,
		minBytes:   int64(cfg.Filters.MinSizeMB * bytesPerMB),
		maxBytes:   int64(cfg.Filters.MaxSizeMB * bytesPerMB),
	}

	var err error
	if f.include, err = compileAll(cfg.Filters.IncludePatterns); err != nil {
		return nil, err
	}
	if f.exclude, err = compileAll(cfg.Filters.ExcludePatterns); err != nil {
		return nil, err
	}
	return f, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Allows reports whether the item passes the media type, date and pattern
// filters. When it does not, reason says which filter rejected it.
func (f *Filter) Allows(item ItemInfo) (bool, string) {
	if f.onlyVideos && !item.IsVideo {
		return false, "only videos"
	}
	if f.onlyPhotos && item.IsVideo {
		return false, "only photos"
	}
	if !item.TakenAt.IsZero() {
		if !f.minTime.IsZero() && item.TakenAt.Before(f.minTime) {
			return false, "before min_date"
		}
		if !f.maxTime.IsZero() && item.TakenAt.After(f.maxTime) {
			return false, "after max_date"
		}
	}
	for _, g := range f.exclude {
		if g.Match(item.Name) || g.Match(item.Container) {
			return false, "excluded by pattern"
		}
	}
	if len(f.include) > 0 {
		matched := false
		for _, g := range f.include {
			if g.Match(item.Name) || g.Match(item.Container) {
				matched = true
				break
			}
		}
		if !matched {
			return false, "not matched by include patterns"
		}
	}
	return true, ""
}

// AllowsSize reports whether a downloaded file of n bytes is within bounds
func (f *Filter) AllowsSize(n int64) bool {
	if f.minBytes > 0 && n < f.minBytes {
		return false
	}
	if f.maxBytes > 0 && n > f.maxBytes {
		return false
	}
	return true
}

// HasSizeBounds reports whether any size bound is configured
func (f *Filter) HasSizeBounds() bool {
	return f.minBytes > 0 || f.maxBytes > 0
}
