package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MediaExtensions are the extensions checked when deciding whether an item
// was already retrieved
var MediaExtensions = []string{".jpg", ".mp4"}

// Manager handles file storage operations and duplicate detection
type Manager struct {
	outputDir string
}

// NewManager creates a new storage manager rooted at outputDir
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{outputDir: outputDir}, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// Exists reports whether dir holds base with any media extension and
// returns the path found
func (m *Manager) Exists(dir, base string) (string, bool) {
	for _, ext := range MediaExtensions {
		path := filepath.Join(dir, base+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// EnsureDir creates dir and its parents
func (m *Manager) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Save writes the file at path through fill. The content goes to a temporary
// file first and is renamed into place only when fill succeeds, so a failed
// or interrupted download never leaves a file that looks complete.
func (m *Manager) Save(path string, fill func(w io.Writer) (int64, error)) (int64, error) {
	if err := m.EnsureDir(filepath.Dir(path)); err != nil {
		return 0, err
	}

	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	n, err := fill(out)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return 0, err
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return n, nil
}

// WriteFile atomically writes data to path
func (m *Manager) WriteFile(path string, data []byte) error {
	_, err := m.Save(path, func(w io.Writer) (int64, error) {
		n, err := w.Write(data)
		return int64(n), err
	})
	return err
}

// Remove deletes a previously saved file
func (m *Manager) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
