package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"manifest-route-service/internal/domain"
	"os"
	"path/filepath"
	"sync"
)

// FileGeocodeStore persists entries as one JSON object in a flat file.
//
// The file is loaded on first use and rewritten on every Flush through a
// temporary file and rename, so a crash never leaves a truncated cache.
// All access goes through one mutex: the read-modify-write cycle is scoped
// to a single process.
type FileGeocodeStore struct {
	path string

	mu      sync.Mutex
	loaded  bool
	dirty   bool
	entries map[string]domain.GeocodeCacheEntry
}

func NewFileGeocodeStore(path string) *FileGeocodeStore {
	return &FileGeocodeStore{path: path}
}

func (s *FileGeocodeStore) load() error {
	if s.loaded {
		return nil
	}

	s.entries = map[string]domain.GeocodeCacheEntry{}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("file geocode store: read %q: %w", s.path, err)
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, &s.entries); err != nil {
			return fmt.Errorf("file geocode store: parse %q: %w", s.path, err)
		}
	}
	s.loaded = true
	return nil
}

func (s *FileGeocodeStore) Get(_ context.Context, key string) (domain.GeocodeCacheEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return domain.GeocodeCacheEntry{}, false, err
	}
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *FileGeocodeStore) Put(_ context.Context, key string, entry domain.GeocodeCacheEntry) error {
	if key == "" {
		return errors.New("file geocode store: empty address key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	s.entries[key] = entry
	s.dirty = true
	return nil
}

func (s *FileGeocodeStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	b, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("file geocode store: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("file geocode store: create dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file geocode store: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("file geocode store: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file geocode store: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("file geocode store: replace %q: %w", s.path, err)
	}

	s.dirty = false
	return nil
}

// Entries returns a snapshot of every stored entry.
func (s *FileGeocodeStore) Entries() (map[string]domain.GeocodeCacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}
	out := make(map[string]domain.GeocodeCacheEntry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}
