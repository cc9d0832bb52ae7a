package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// tokenStore keeps the session token between runs.
type tokenStore struct {
	path string
}

func newTokenStore() (tokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return tokenStore{}, fmt.Errorf("locating config dir: %w", err)
	}

	return tokenStore{path: filepath.Join(dir, "spendtrack", "session")}, nil
}

// Load returns the stored token, or "" when there is none.
func (s tokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("reading session: %w", err)
	}

	return strings.TrimSpace(string(b)), nil
}

func (s tokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

func (s tokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}

	return nil
}
