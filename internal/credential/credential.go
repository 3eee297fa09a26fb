// Package credential persists the provider API key between invocations.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFile is the key file used when configuration names none.
const DefaultFile = "avapi_key.json"

// ErrMissingCredential is returned when no usable key is stored.
var ErrMissingCredential = errors.New("API key not found, run setkey first")

type keyFile struct {
	Key string `json:"key"`
}

// FileStore keeps the key in a small JSON document at Path.
type FileStore struct {
	Path string
}

// Key returns the stored key. A missing file, unreadable JSON or an empty key
// all report ErrMissingCredential.
func (s FileStore) Key() (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrMissingCredential
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingCredential, err)
	}
	var kf keyFile
	if err := json.Unmarshal(b, &kf); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMissingCredential, s.Path, err)
	}
	key := strings.TrimSpace(kf.Key)
	if key == "" {
		return "", ErrMissingCredential
	}
	return key, nil
}

// Save writes key to Path, readable by the owner only.
func (s FileStore) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("empty API key")
	}
	b, err := json.Marshal(keyFile{Key: key})
	if err != nil {
		return fmt.Errorf("encode key: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create key dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, b, 0o600); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(s.Path, 0o600); err != nil {
		return fmt.Errorf("chmod key: %w", err)
	}
	return nil
}
