package session

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "igsaver"

// KeyringStore keeps sessions in the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a keyring-backed store after checking that the
// keychain is reachable
func NewKeyringStore() (*KeyringStore, error) {
	const probe = "availability-probe"
	if err := keyring.Set(keyringService, probe, "ok"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, probe)
	return &KeyringStore{}, nil
}

// Load reads the session of username from the keychain
func (k *KeyringStore) Load(username string) ([]byte, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	value, err := keyring.Get(keyringService, namePrefix+username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode keyring entry: %w", err)
	}
	return data, nil
}

// Save stores the session of username in the keychain
func (k *KeyringStore) Save(username string, data []byte) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	if err := keyring.Set(keyringService, namePrefix+username, base64.StdEncoding.EncodeToString(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

// Delete removes the session of username from the keychain
func (k *KeyringStore) Delete(username string) error {
	if err := validateUsername(username); err != nil {
		return err
	}
	if err := keyring.Delete(keyringService, namePrefix+username); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// Exists checks if the keychain holds a session for username
func (k *KeyringStore) Exists(username string) bool {
	if validateUsername(username) != nil {
		return false
	}
	_, err := keyring.Get(keyringService, namePrefix+username)
	return err == nil
}

// List is not supported by the keychain APIs go-keyring wraps, so it always
// returns an empty list
func (k *KeyringStore) List() ([]string, error) {
	return []string{}, nil
}
