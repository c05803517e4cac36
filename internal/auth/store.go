// Package auth persists the bearer token used by the transport.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoToken is returned by a TokenStore holding no token.
var ErrNoToken = errors.New("no token stored")

// Token is a bearer token and its optional expiry.
type Token struct {
	Value     string     `yaml:"token"`
	ExpiresAt *time.Time `yaml:"expires_at,omitempty"`
}

// Expired reports whether the token has an expiry at or before now.
func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// TokenStore holds at most one token.
type TokenStore interface {
	Load() (Token, error)
	Save(Token) error
	Clear() error
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	tok *Token
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok == nil {
		return Token{}, ErrNoToken
	}
	return *s.tok, nil
}

func (s *MemoryStore) Save(t Token) error {
	s.mu.Lock()
	s.tok = &t
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.tok = nil
	s.mu.Unlock()
	return nil
}

// TokenFile is the file name a FileStore writes inside its directory.
const TokenFile = "token.yaml"

// FileStore keeps the token in a YAML file readable only by the owner.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store writing TokenFile under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, TokenFile)}
}

// Path returns the token file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Token{}, ErrNoToken
	}
	if err != nil {
		return Token{}, fmt.Errorf("reading token: %w", err)
	}
	var t Token
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Token{}, fmt.Errorf("parsing token: %w", err)
	}
	if t.Value == "" {
		return Token{}, ErrNoToken
	}
	return t, nil
}

func (s *FileStore) Save(t Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}
