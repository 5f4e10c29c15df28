package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arkanhadi/temanrasa/internal/domain"
)

const (
	sessionFile = "session"
	tokenFile   = "token"
)

// Store persists the session id and the admin bearer token as single
// value files under one state directory. It plays the role the browser
// gives to sessionStorage (session id) and localStorage (token).
//
// 1 store, implements 2 interfaces (SessionStore and TokenStore).
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Load() (domain.SessionID, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading session file: %w", err)
	}
	return domain.SessionID(strings.TrimSpace(string(data))), nil
}

func (s *Store) Save(id domain.SessionID) error {
	return s.write(sessionFile, string(id))
}

func (s *Store) Token() string {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *Store) SetToken(token string) error {
	return s.write(tokenFile, token)
}

func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.dir, tokenFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) write(name, value string) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(value+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
