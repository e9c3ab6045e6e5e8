package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the bearer token across invocations. Only the session
// store writes through it; every other component reads the token via the
// session store.
type TokenStore interface {
	// Load returns the persisted token, or "" if none is stored.
	Load() (string, error)
	Save(token string) error
	// Clear removes the persisted token. Clearing an absent token is not an
	// error.
	Clear() error
}

// FileTokenStore keeps the token in a single mode-0600 file.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a token store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

var _ TokenStore = (*FileTokenStore)(nil)

func (s *FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemoryTokenStore is an in-memory token store for tests.
type MemoryTokenStore struct {
	token string
}

var _ TokenStore = (*MemoryTokenStore)(nil)

func (s *MemoryTokenStore) Load() (string, error)   { return s.token, nil }
func (s *MemoryTokenStore) Save(token string) error { s.token = token; return nil }
func (s *MemoryTokenStore) Clear() error            { s.token = ""; return nil }
