package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var takenAt = time.Date(2024, 2, 29, 21, 4, 5, 0, time.FixedZone("CET", 3600))

func TestLayoutPaths(t *testing.T) {
	l := Layout{Root: "backups", Username: "alice"}

	assert.Equal(t, filepath.Join("backups", "alice", "highlights", "Travel"), l.HighlightDir("Travel"))
	assert.Equal(t, filepath.Join("backups", "alice", "stories"), l.StoriesDir())
	assert.Equal(t, "2024-02-29_20-04-05_UTC", l.ItemBase(takenAt))
	assert.Equal(t, "dir", l.ItemDir("dir", takenAt))
}

func TestLayoutFlattenAndDateFolders(t *testing.T) {
	l := Layout{Root: "backups", Username: "alice", Flatten: true, DateFolders: true}

	assert.Equal(t, filepath.Join("backups", "alice"), l.HighlightDir("Travel"))
	assert.Equal(t, filepath.Join("backups", "alice"), l.StoriesDir())
	assert.Equal(t, filepath.Join("backups", "alice", "2024-02-29"), l.ItemDir(l.StoriesDir(), takenAt))
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"Summer 2023", 255, "Summer 2023"},
		{"a/b\\c:d*e?f", 255, "a_b_c_d_e_f"},
		{"  ..hidden.. ", 255, "hidden"},
		{"", 255, "untitled"},
		{"tab\there", 255, "tabhere"},
		{"abcdefghij", 4, "abcd"},
		{"ééé", 3, "é"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in, tt.limit))
		})
	}
}

func TestLayoutTruncatesLongTitles(t *testing.T) {
	l := Layout{Root: "r", Username: "u", MaxNameLength: 40}
	dir := l.HighlightDir(strings.Repeat("x", 100))
	assert.Len(t, filepath.Base(dir), 40)
}

func TestLayoutNameCapKeepsItemBase(t *testing.T) {
	l := Layout{Root: "r", Username: "u", MaxNameLength: 15}

	assert.Equal(t, "2024-02-29_20-04-05_UTC", l.ItemBase(takenAt))
	assert.NotEqual(t, l.ItemBase(takenAt), l.ItemBase(takenAt.Add(time.Minute)))
	assert.Len(t, filepath.Base(l.HighlightDir(strings.Repeat("y", 50))), 15)
}

func TestManagerExists(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	_, ok := m.Exists(dir, "2024-01-01_00-00-00_UTC")
	assert.False(t, ok)

	video := filepath.Join(dir, "2024-01-01_00-00-00_UTC.mp4")
	require.NoError(t, os.WriteFile(video, []byte("v"), 0644))

	path, ok := m.Exists(dir, "2024-01-01_00-00-00_UTC")
	assert.True(t, ok)
	assert.Equal(t, video, path)

	// sidecars do not count as the item
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644))
	_, ok = m.Exists(dir, "other")
	assert.False(t, ok)
}

func TestManagerSave(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(root)
	require.NoError(t, err)

	path := filepath.Join(root, "alice", "stories", "item.jpg")
	n, err := m.Save(path, func(w io.Writer) (int64, error) {
		return io.Copy(w, bytes.NewReader([]byte("photo data")))
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "photo data", string(content))
	assert.NoFileExists(t, path+".tmp")
}

func TestManagerSaveFailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(root)
	require.NoError(t, err)

	path := filepath.Join(root, "item.mp4")
	_, err = m.Save(path, func(w io.Writer) (int64, error) {
		w.Write([]byte("partial"))
		return 7, errors.New("connection reset")
	})
	require.Error(t, err)

	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+".tmp")
	_, ok := m.Exists(root, "item")
	assert.False(t, ok)
}

func TestManagerWriteFileAndRemove(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(filepath.Join(root, "out"))
	require.NoError(t, err)
	assert.DirExists(t, m.GetOutputDir())

	path := filepath.Join(m.GetOutputDir(), "caption.txt")
	require.NoError(t, m.WriteFile(path, []byte("hello")))
	assert.FileExists(t, path)

	require.NoError(t, m.Remove(path))
	assert.NoFileExists(t, path)
	assert.NoError(t, m.Remove(path))
}
