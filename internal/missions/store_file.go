package missions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the mission collection as one JSON document on
// disk. Used by the CLI and by single-node deployments without postgres.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the whole collection. A missing file is an empty collection.
func (s *FileStore) Load(_ context.Context) ([]Mission, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Mission{}, nil
		}
		return nil, fmt.Errorf("read mission file: %w", err)
	}

	var missions []Mission
	if err := json.Unmarshal(data, &missions); err != nil {
		return nil, fmt.Errorf("parse mission file: %w", err)
	}
	return missions, nil
}

// Save writes the whole collection back. The write goes through a temp
// file and rename so a crash cannot leave a half-written collection.
func (s *FileStore) Save(_ context.Context, missions []Mission) error {
	data, err := json.MarshalIndent(missions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal missions: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "missions-*.json")
	if err != nil {
		return fmt.Errorf("create temp mission file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write mission file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close mission file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace mission file: %w", err)
	}
	return nil
}
