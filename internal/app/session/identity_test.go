package session_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memstore "github.com/arkanhadi/temanrasa/internal/adapters/storage/memory"
	"github.com/arkanhadi/temanrasa/internal/app/session"
	"github.com/arkanhadi/temanrasa/internal/domain"
)

type brokenStore struct{}

func (brokenStore) Load() (domain.SessionID, error) { return "", errors.New("disk on fire") }
func (brokenStore) Save(domain.SessionID) error     { return errors.New("disk on fire") }

func TestGetOrCreateIsIdempotent(t *testing.T) {
	identity := session.NewIdentity(memstore.NewSessionStore())

	first := identity.GetOrCreate()
	require.NotEmpty(t, first)
	assert.Equal(t, first, identity.GetOrCreate())
}

func TestGetOrCreateReusesPersistedID(t *testing.T) {
	store := memstore.NewSessionStore()
	require.NoError(t, store.Save("existing-session"))

	identity := session.NewIdentity(store)
	assert.Equal(t, domain.SessionID("existing-session"), identity.GetOrCreate())
}

func TestResetReplacesID(t *testing.T) {
	store := memstore.NewSessionStore()
	identity := session.NewIdentity(store)

	old := identity.GetOrCreate()
	fresh := identity.Reset()

	assert.NotEqual(t, old, fresh)
	assert.Equal(t, fresh, identity.GetOrCreate())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, fresh, persisted)
}

func TestBrokenStoreDegradesToInMemory(t *testing.T) {
	identity := session.NewIdentity(brokenStore{})

	id := identity.GetOrCreate()
	require.NotEmpty(t, id)
	// still one stable id for the process lifetime
	assert.Equal(t, id, identity.GetOrCreate())
	assert.NotEqual(t, id, identity.Reset())
}
