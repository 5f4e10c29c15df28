package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/arkanhadi/temanrasa/internal/domain"
	"github.com/arkanhadi/temanrasa/internal/observability"
)

// Identity owns the one session id that correlates every remote call
// of a browsing session. It is created once, survives restarts through
// the store, and is replaced only by an explicit Reset.
//
// When the store fails the identity degrades to in-memory: still one
// stable id for the life of the process, just not persisted.
type Identity struct {
	mu    sync.Mutex
	store domain.SessionStore
	id    domain.SessionID
}

func NewIdentity(store domain.SessionStore) *Identity {
	return &Identity{store: store}
}

// GetOrCreate returns the persisted session id, generating and
// persisting a fresh one on first use. Idempotent: repeated calls
// within one browsing session return the identical id with no further
// side effects.
func (i *Identity) GetOrCreate() domain.SessionID {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.id != "" {
		return i.id
	}

	stored, err := i.store.Load()
	if err != nil {
		observability.Logger().Warn("session store unavailable, using in-memory id", "error", err)
	}
	if stored != "" {
		i.id = stored
		return i.id
	}

	i.id = i.generate()
	return i.id
}

// Reset discards the current id and persists a new one. Callers are
// responsible for invalidating any state scoped to the old session.
func (i *Identity) Reset() domain.SessionID {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.id = i.generate()
	return i.id
}

func (i *Identity) generate() domain.SessionID {
	id := domain.SessionID(uuid.NewString())
	if err := i.store.Save(id); err != nil {
		observability.Logger().Warn("failed to persist session id, continuing in-memory", "error", err)
	}
	return id
}
