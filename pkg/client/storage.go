package client

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
)

// Credentials is the persisted authentication state.
type Credentials struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// CredentialStore persists credentials between runs.
type CredentialStore interface {
	Save(creds Credentials) error
	Load() (*Credentials, error)
	Clear() error
}

// FileStore keeps credentials in a JSON file, typically under the user's
// config directory. A corrupt or unreadable file is treated as absent and
// removed, never surfaced as an error to the caller.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStorePath returns the conventional credentials location under the
// user's config directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gradetest", "credentials.json"), nil
}

// Save writes the credentials, creating parent directories as needed.
func (s *FileStore) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	encoded, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, encoded, 0o600)
}

// Load reads the stored credentials. It returns (nil, nil) when nothing
// usable is stored.
func (s *FileStore) Load() (*Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil || creds.AccessToken == "" {
		log.Printf("[FileStore] discarding corrupt credentials file %s", s.path)
		s.Clear()
		return nil, nil
	}
	return &creds, nil
}

// Clear removes the stored credentials.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
