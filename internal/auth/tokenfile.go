package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// tokenFile is the on-disk session cache. Each CLI invocation is a new
// process, so the access token must survive between runs; this is the local
// equivalent of the browser's stored session.
type tokenFile struct {
	path string
}

type storedSession struct {
	AccessToken string   `json:"access_token"`
	Identity    Identity `json:"identity"`
}

func newTokenFile(path string) *tokenFile {
	return &tokenFile{path: path}
}

// load returns the cached session, or nil when none is stored.
func (t *tokenFile) load() (*storedSession, error) {
	data, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session cache: %w", err)
	}
	var s storedSession
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt cache is the same as no cache.
		return nil, nil
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func (t *tokenFile) save(s *storedSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return fmt.Errorf("create session cache dir: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o600); err != nil {
		return fmt.Errorf("write session cache: %w", err)
	}
	return nil
}

func (t *tokenFile) clear() error {
	err := os.Remove(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
