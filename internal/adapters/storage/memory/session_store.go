package memory

import (
	"sync"

	"github.com/arkanhadi/temanrasa/internal/domain"
)

// SessionStore keeps the session id in memory only. Used as the
// degraded fallback when the state directory is unavailable, and as a
// test double. The id does not survive the process.
type SessionStore struct {
	mu sync.RWMutex
	id domain.SessionID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Load() (domain.SessionID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.id, nil
}

func (s *SessionStore) Save(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = id
	return nil
}
