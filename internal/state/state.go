// Package state persists the run state that ties a harness run to its
// provisioned instance. The store is a flat string-keyed map backed by a
// YAML file so that create in one process and destroy in a later one see
// the same record.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Well-known keys written by the driver.
const (
	KeyInstanceID = "instance_id"
	KeyHostname   = "hostname"
	KeyPublicIP   = "public_ip"
)

// Store is the durable key-value record for one provisioned instance.
// Every mutation is persisted before it returns.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore implements Store on a YAML file.
type FileStore struct {
	path string
	data map[string]string
}

// Load opens the store at path, reading existing state if present.
func Load(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	return s, nil
}

// Get returns the value for key and whether it was present and non-empty.
func (s *FileStore) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok && v != ""
}

// Set stores key=value and persists the store.
func (s *FileStore) Set(key, value string) error {
	s.data[key] = value
	return s.flush()
}

// Delete removes key and persists the store.
func (s *FileStore) Delete(key string) error {
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// flush writes the whole map atomically: temp file in the same directory,
// then rename over the target.
func (s *FileStore) flush() error {
	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
