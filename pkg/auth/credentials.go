// Package auth manages the Census API key.
//
// A key is optional but strongly recommended: anonymous callers are
// throttled hard and time out more often. The key is held in the system
// keychain when available, with environment variables as a fallback.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrKeyNotFound indicates no API key is stored anywhere
	ErrKeyNotFound = errors.New("no census API key found")
	// ErrInvalidKey indicates an empty or malformed key
	ErrInvalidKey = errors.New("invalid census API key")
	// ErrStoreUnavailable indicates the backend cannot perform the operation
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// KeyStore is the interface for storing and retrieving the API key
type KeyStore interface {
	// Store saves the API key
	Store(key string) error
	// Retrieve gets the stored API key
	Retrieve() (string, error)
	// Delete removes the stored API key
	Delete() error
	// Exists checks whether a key is stored
	Exists() bool
}

// Manager tries multiple key stores in order, preferring the keychain.
type Manager struct {
	stores []KeyStore
}

// NewManager creates a credential manager with the available backends.
func NewManager() *Manager {
	var stores []KeyStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}
}

// NewManagerWithStores creates a manager over explicit stores, for tests.
func NewManagerWithStores(stores ...KeyStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the key using the first backend that accepts it.
func (m *Manager) Store(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidKey
	}

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(key); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store API key: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve returns the key from the first backend that has one.
func (m *Manager) Retrieve() (string, error) {
	for _, store := range m.stores {
		if key, err := store.Retrieve(); err == nil && key != "" {
			return key, nil
		}
	}
	return "", ErrKeyNotFound
}

// Delete removes the key from every backend that holds it.
func (m *Manager) Delete() error {
	deleted := false
	var lastErr error
	for _, store := range m.stores {
		if !store.Exists() {
			continue
		}
		if err := store.Delete(); err != nil {
			lastErr = err
		} else {
			deleted = true
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to delete API key: %w", lastErr)
	}
	if !deleted {
		return ErrKeyNotFound
	}
	return nil
}

// Exists reports whether any backend holds a key.
func (m *Manager) Exists() bool {
	for _, store := range m.stores {
		if store.Exists() {
			return true
		}
	}
	return false
}
