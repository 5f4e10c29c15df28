package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/temanrasa/internal/domain"
)

func TestLoadReturnsEmptyWhenNothingSaved(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	id, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("session_1717000000000_k3j2h1"))

	id, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("session_1717000000000_k3j2h1"), id)

	// a second store over the same dir sees the same id
	again, err := NewStore(dir)
	require.NoError(t, err)
	id, err = again.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("session_1717000000000_k3j2h1"), id)
}

func TestSessionFileIsPrivate(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save("s"))

	info, err := os.Stat(filepath.Join(dir, "session"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTokenLifecycle(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, store.Token())

	require.NoError(t, store.SetToken("tok-1"))
	assert.Equal(t, "tok-1", store.Token())

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())

	// clearing an already-empty store is fine
	require.NoError(t, store.Clear())
}

func TestNewStoreCreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	_, err := NewStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
