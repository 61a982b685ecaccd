package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterAllows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Download.MinTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg.Download.MaxTime = time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	cfg.Filters.ExcludePatterns = []string{"*Ads*"}

	f, err := NewFilter(cfg)
	require.NoError(t, err)

	inRange := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		item   ItemInfo
		allow  bool
		reason string
	}{
		{"plain item", ItemInfo{Container: "Travel", Name: "a.jpg", TakenAt: inRange}, true, ""},
		{"too early", ItemInfo{Container: "Travel", TakenAt: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)}, false, "before min_date"},
		{"too late", ItemInfo{Container: "Travel", TakenAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}, false, "after max_date"},
		{"excluded container", ItemInfo{Container: "Ads 2024", Name: "b.jpg", TakenAt: inRange}, false, "excluded by pattern"},
		{"unknown date passes", ItemInfo{Container: "Travel", Name: "c.mp4", IsVideo: true}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := f.Allows(tt.item)
			assert.Equal(t, tt.allow, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestFilterMediaType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Download.OnlyVideos = true
	f, err := NewFilter(cfg)
	require.NoError(t, err)

	ok, _ := f.Allows(ItemInfo{IsVideo: false})
	assert.False(t, ok)
	ok, _ = f.Allows(ItemInfo{IsVideo: true})
	assert.True(t, ok)

	cfg = DefaultConfig()
	cfg.Download.OnlyPhotos = true
	f, err = NewFilter(cfg)
	require.NoError(t, err)

	ok, reason := f.Allows(ItemInfo{IsVideo: true})
	assert.False(t, ok)
	assert.Equal(t, "only photos", reason)
}

func TestFilterIncludePatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filters.IncludePatterns = []string{"2024-0[1-3]-*", "Family"}
	f, err := NewFilter(cfg)
	require.NoError(t, err)

	ok, _ := f.Allows(ItemInfo{Container: "Misc", Name: "2024-02-10_08-00-00_UTC.jpg"})
	assert.True(t, ok)
	ok, _ = f.Allows(ItemInfo{Container: "Family", Name: "2023-12-24_20-00-00_UTC.jpg"})
	assert.True(t, ok)
	ok, reason := f.Allows(ItemInfo{Container: "Misc", Name: "2024-05-10_08-00-00_UTC.jpg"})
	assert.False(t, ok)
	assert.Equal(t, "not matched by include patterns", reason)
}

func TestFilterRejectsBadPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filters.ExcludePatterns = []string{"[oops"}
	_, err := NewFilter(cfg)
	assert.Error(t, err)
}

func TestFilterSizeBounds(t *testing.T) {
	cfg := DefaultConfig()
	f, err := NewFilter(cfg)
	require.NoError(t, err)
	assert.False(t, f.HasSizeBounds())
	assert.True(t, f.AllowsSize(1<<40))

	cfg.Filters.MinSizeMB = 0.5
	cfg.Filters.MaxSizeMB = 2
	f, err = NewFilter(cfg)
	require.NoError(t, err)

	assert.True(t, f.HasSizeBounds())
	assert.False(t, f.AllowsSize(100*1024))
	assert.True(t, f.AllowsSize(1024*1024))
	assert.False(t, f.AllowsSize(3*1024*1024))
}
