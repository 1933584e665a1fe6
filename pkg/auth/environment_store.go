package auth

import "os"

// Environment variables checked for the API key, in precedence order.
var envVars = []string{"NTXCENSUS_API_KEY", "CENSUS_API_KEY"}

// EnvironmentStore reads the API key from environment variables. It is a
// read-only fallback for systems without a keychain.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(key string) error {
	return ErrStoreUnavailable
}

// Retrieve gets the API key from the environment
func (e *EnvironmentStore) Retrieve() (string, error) {
	for _, name := range envVars {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}
	return "", ErrKeyNotFound
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}

// Exists checks whether an environment variable carries a key
func (e *EnvironmentStore) Exists() bool {
	key, err := e.Retrieve()
	return err == nil && key != ""
}
