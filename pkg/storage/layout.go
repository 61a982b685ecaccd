package storage

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ItemTimeFormat is the layout of item base names
const ItemTimeFormat = "2006-01-02_15-04-05_UTC"

const (
	highlightsDir = "highlights"
	storiesDir    = "stories"
)

// Layout computes where items of one target user are stored
type Layout struct {
	Root          string
	Username      string
	DateFolders   bool
	Flatten       bool
	MaxNameLength int
}

// UserDir is the top directory of the target user
func (l Layout) UserDir() string {
	return filepath.Join(l.Root, l.Username)
}

// HighlightDir is the directory of one highlight reel
func (l Layout) HighlightDir(title string) string {
	if l.Flatten {
		return l.UserDir()
	}
	return filepath.Join(l.UserDir(), highlightsDir, SanitizeName(title, l.maxName()))
}

// StoriesDir is the directory of active and archived stories
func (l Layout) StoriesDir() string {
	if l.Flatten {
		return l.UserDir()
	}
	return filepath.Join(l.UserDir(), storiesDir)
}

// ItemDir is the directory an item taken at t is written to
func (l Layout) ItemDir(containerDir string, t time.Time) string {
	if !l.DateFolders {
		return containerDir
	}
	return filepath.Join(containerDir, t.UTC().Format("2006-01-02"))
}

// ItemBase is the extension-less file name of an item taken at t. The
// name cap applies to titles only, the timestamp is always kept whole.
func (l Layout) ItemBase(t time.Time) string {
	return ItemBase(t)
}

func (l Layout) maxName() int {
	if l.MaxNameLength <= 0 || l.MaxNameLength > 255 {
		return 255
	}
	return l.MaxNameLength
}

// ItemBase formats t in UTC with ItemTimeFormat
func ItemBase(t time.Time) string {
	return t.UTC().Format(ItemTimeFormat)
}

// SanitizeName makes s safe to use as a single path element and caps it at
// limit bytes
func SanitizeName(s string, limit int) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
	cleaned = strings.Trim(strings.TrimSpace(cleaned), ".")
	cleaned = truncate(cleaned, limit)
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}

// truncate cuts s to at most limit bytes without splitting a rune
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}
