package ports

import (
	"context"
	"manifest-route-service/internal/domain"
)

// Port: a key-value boundary for persisted geocoding results.
// Keys are normalized original addresses; implementations must not rewrite them.
type GeocodeStore interface {
	// Get returns the entry for key and whether it was present.
	Get(ctx context.Context, key string) (domain.GeocodeCacheEntry, bool, error)
	// Put stores or replaces the entry for key.
	Put(ctx context.Context, key string, entry domain.GeocodeCacheEntry) error
	// Flush makes previously stored entries durable.
	Flush(ctx context.Context) error
}
