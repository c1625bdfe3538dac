package cache

import (
	"context"
	"errors"
	"manifest-route-service/internal/domain"
	"sync"
)

// MemoryGeocodeStore keeps entries for the life of the process only.
type MemoryGeocodeStore struct {
	mu      sync.RWMutex
	entries map[string]domain.GeocodeCacheEntry
}

func NewMemoryGeocodeStore() *MemoryGeocodeStore {
	return &MemoryGeocodeStore{entries: map[string]domain.GeocodeCacheEntry{}}
}

func (s *MemoryGeocodeStore) Get(_ context.Context, key string) (domain.GeocodeCacheEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *MemoryGeocodeStore) Put(_ context.Context, key string, entry domain.GeocodeCacheEntry) error {
	if key == "" {
		return errors.New("memory geocode store: empty address key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry
	return nil
}

func (s *MemoryGeocodeStore) Flush(context.Context) error { return nil }

func (s *MemoryGeocodeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
