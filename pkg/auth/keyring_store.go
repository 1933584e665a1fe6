package auth

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "ntxcensus"
	keyringUser    = "census-api-key"
)

// KeyringStore holds the API key in the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a keychain-backed store, probing availability
func NewKeyringStore() (*KeyringStore, error) {
	probe := "availability-probe"
	if err := keyring.Set(keyringService, probe, "ok"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, probe)

	return &KeyringStore{}, nil
}

// Store saves the API key to the system keychain
func (k *KeyringStore) Store(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := keyring.Set(keyringService, keyringUser, key); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

// Retrieve gets the API key from the system keychain
func (k *KeyringStore) Retrieve() (string, error) {
	key, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return key, nil
}

// Delete removes the API key from the system keychain
func (k *KeyringStore) Delete() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil {
		if err == keyring.ErrNotFound {
			return ErrKeyNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// Exists checks whether the keychain holds an API key
func (k *KeyringStore) Exists() bool {
	_, err := keyring.Get(keyringService, keyringUser)
	return err == nil
}
