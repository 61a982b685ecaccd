// Package session persists the opaque login session of each Instagram
// account so later runs can skip the password prompt.
package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no session is stored for a username
	ErrNotFound = errors.New("session not found")
	// ErrInvalidUsername is returned for empty or path-like usernames
	ErrInvalidUsername = errors.New("invalid username")
	// ErrPassphraseRequired is returned when an encrypted session is read
	// without a passphrase
	ErrPassphraseRequired = errors.New("session is encrypted, set IGSAVER_SESSION_PASSPHRASE")
)

const namePrefix = "session-"

// Store saves and loads session blobs keyed by username
type Store interface {
	Load(username string) ([]byte, error)
	Save(username string, data []byte) error
	Delete(username string) error
	Exists(username string) bool
	List() ([]string, error)
}

// Open returns the store for backend ("file" or "keyring")
func Open(backend, dir, passphrase string) (Store, error) {
	switch backend {
	case "", "file":
		store, err := NewFileStore(dir, passphrase)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "keyring":
		store, err := NewKeyringStore()
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
}

func validateUsername(username string) error {
	if username == "" || strings.ContainsAny(username, `/\`) || username == "." || username == ".." {
		return ErrInvalidUsername
	}
	return nil
}
