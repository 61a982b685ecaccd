package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps one file per username, <dir>/session-<username>.
// When a passphrase is set the blob is encrypted at rest.
type FileStore struct {
	dir        string
	passphrase string
}

// NewFileStore creates the session directory with owner-only permissions
func NewFileStore(dir, passphrase string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{dir: dir, passphrase: passphrase}, nil
}

// Path returns the session file of username
func (s *FileStore) Path(username string) string {
	return filepath.Join(s.dir, namePrefix+username)
}

// Load reads the session of username
func (s *FileStore) Load(username string) ([]byte, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.Path(username))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if !isSealed(content) {
		return content, nil
	}
	if s.passphrase == "" {
		return nil, ErrPassphraseRequired
	}
	data, err := unseal(content, s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}
	return data, nil
}

// Save writes the session of username, replacing any previous one
func (s *FileStore) Save(username string, data []byte) error {
	if err := validateUsername(username); err != nil {
		return err
	}

	content := data
	if s.passphrase != "" {
		sealed, err := seal(data, s.passphrase)
		if err != nil {
			return fmt.Errorf("failed to encrypt session: %w", err)
		}
		content = sealed
	}

	path := s.Path(username)
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, content, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename session file: %w", err)
	}
	return nil
}

// Delete removes the session of username
func (s *FileStore) Delete(username string) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	if err := os.Remove(s.Path(username)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Exists checks if a session file exists for username
func (s *FileStore) Exists(username string) bool {
	if validateUsername(username) != nil {
		return false
	}
	info, err := os.Stat(s.Path(username))
	return err == nil && !info.IsDir()
}

// List returns the usernames with a stored session, sorted
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	users := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, namePrefix) || strings.HasSuffix(name, ".tmp") {
			continue
		}
		users = append(users, strings.TrimPrefix(name, namePrefix))
	}
	sort.Strings(users)
	return users, nil
}
