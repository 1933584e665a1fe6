package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStoreAndRetrieve(t *testing.T) {
	store := NewMockStore()
	manager := NewManagerWithStores(store)

	require.NoError(t, manager.Store("my-key"))
	key, err := manager.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, "my-key", key)
	assert.True(t, manager.Exists())
}

func TestManagerRejectsEmptyKey(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())
	assert.ErrorIs(t, manager.Store("   "), ErrInvalidKey)
}

func TestManagerFallsBackAcrossStores(t *testing.T) {
	broken := NewMockStore()
	broken.StoreErr = errors.New("keychain locked")
	broken.RetrieveErr = errors.New("keychain locked")
	working := NewMockStore()

	manager := NewManagerWithStores(broken, working)
	require.NoError(t, manager.Store("fallback-key"))

	key, err := manager.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", key)
}

func TestManagerRetrieveNotFound(t *testing.T) {
	manager := NewManagerWithStores(NewMockStore())
	_, err := manager.Retrieve()
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestManagerDelete(t *testing.T) {
	store := NewMockStore()
	manager := NewManagerWithStores(store)

	require.NoError(t, manager.Store("doomed"))
	require.NoError(t, manager.Delete())
	assert.False(t, manager.Exists())

	assert.ErrorIs(t, manager.Delete(), ErrKeyNotFound)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Run("empty environment", func(t *testing.T) {
		t.Setenv("NTXCENSUS_API_KEY", "")
		t.Setenv("CENSUS_API_KEY", "")
		_, err := store.Retrieve()
		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.False(t, store.Exists())
	})

	t.Run("conventional variable", func(t *testing.T) {
		t.Setenv("NTXCENSUS_API_KEY", "")
		t.Setenv("CENSUS_API_KEY", "shared")
		key, err := store.Retrieve()
		require.NoError(t, err)
		assert.Equal(t, "shared", key)
	})

	t.Run("app variable wins", func(t *testing.T) {
		t.Setenv("NTXCENSUS_API_KEY", "specific")
		t.Setenv("CENSUS_API_KEY", "shared")
		key, err := store.Retrieve()
		require.NoError(t, err)
		assert.Equal(t, "specific", key)
	})

	t.Run("read only", func(t *testing.T) {
		assert.ErrorIs(t, store.Store("x"), ErrStoreUnavailable)
		assert.ErrorIs(t, store.Delete(), ErrStoreUnavailable)
	})
}

func TestMockStoreLifecycle(t *testing.T) {
	store := NewMockStore()
	assert.False(t, store.Exists())

	require.NoError(t, store.Store("k"))
	assert.True(t, store.Exists())

	key, err := store.Retrieve()
	require.NoError(t, err)
	assert.Equal(t, "k", key)

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())
}
