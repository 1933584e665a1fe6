package auth

import "sync"

// MockStore is an in-memory KeyStore for tests
type MockStore struct {
	mu  sync.Mutex
	key string
	// StoreErr, RetrieveErr and DeleteErr force failures when set
	StoreErr    error
	RetrieveErr error
	DeleteErr   error
}

// NewMockStore creates an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Store(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	if key == "" {
		return ErrInvalidKey
	}
	m.key = key
	return nil
}

func (m *MockStore) Retrieve() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RetrieveErr != nil {
		return "", m.RetrieveErr
	}
	if m.key == "" {
		return "", ErrKeyNotFound
	}
	return m.key, nil
}

func (m *MockStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if m.key == "" {
		return ErrKeyNotFound
	}
	m.key = ""
	return nil
}

func (m *MockStore) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key != ""
}
