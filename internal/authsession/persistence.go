package authsession

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Mode is a session persistence mode.
type Mode string

const (
	// ModeLocal keeps the credential in a file so the session survives a
	// process restart.
	ModeLocal Mode = "local"
	// ModeMemory keeps the credential in process memory only.
	ModeMemory Mode = "memory"
)

// Credential is the token pair backing a session.
type Credential struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email,omitempty"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// CredentialStore keeps at most one credential.
type CredentialStore interface {
	// Prepare makes sure the store can accept writes.
	Prepare() error
	// Load returns the stored credential, or nil when there is none.
	Load() (*Credential, error)
	// Save replaces the stored credential.
	Save(cred *Credential) error
	// Clear removes the stored credential. Clearing an empty store is not an error.
	Clear() error
}

// FileStore keeps the credential as a JSON document at a file path.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Prepare creates the parent directory with mode 0700.
func (s *FileStore) Prepare() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("could not create session state directory: %w", err)
	}

	return nil
}

// Load reads the credential file. A missing file yields nil, nil.
func (s *FileStore) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read session state: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(b, &cred); err != nil {
		return nil, fmt.Errorf("could not decode session state: %w", err)
	}

	return &cred, nil
}

// Save writes the credential through a temporary file and an atomic rename.
func (s *FileStore) Save(cred *Credential) error {
	if err := s.Prepare(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode session state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("could not create session state file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("could not write session state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("could not restrict session state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close session state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace session state: %w", err)
	}

	return nil
}

// Clear deletes the credential file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not remove session state: %w", err)
	}

	return nil
}

// MemoryStore keeps the credential in memory.
type MemoryStore struct {
	mu   sync.Mutex
	cred *Credential
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Prepare() error { return nil }

func (s *MemoryStore) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cred == nil {
		return nil, nil
	}
	c := *s.cred

	return &c, nil
}

func (s *MemoryStore) Save(cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *cred
	s.cred = &c

	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil

	return nil
}
